package app

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/Ulannnnnnn/WebFinal/internal/models"
)

// ErrSuperseded marks a forecast response that arrived after a newer request
// was issued. The caller discards it silently; the newest issued request
// always wins the render.
var ErrSuperseded = errors.New("forecast request superseded")

// ForecastResult is what the forecast view renders: the one-entry summary and
// the raw payload for debugging.
type ForecastResult struct {
	Summary models.ForecastSummary
	Raw     string
}

// Forecast fetches the forecast for a coordinate pair and extracts the
// summary from the first series entry. cityLabel is the display fallback when
// the payload carries no city name. An empty series yields a NoData summary,
// never an error.
//
// Each call takes a sequence number; if a newer call has been issued by the
// time the response arrives, the result is dropped with ErrSuperseded. This
// closes the stale-render race a rapid double trigger would otherwise cause.
func (a *App) Forecast(ctx context.Context, lat, lon float64, cityLabel string) (ForecastResult, error) {
	token, err := a.requireAuth()
	if err != nil {
		return ForecastResult{}, err
	}

	seq := atomic.AddUint64(&a.forecastSeq, 1)

	raw, err := a.client.Forecast(ctx, token, lat, lon)
	if err != nil {
		return ForecastResult{}, err
	}
	if atomic.LoadUint64(&a.forecastSeq) != seq {
		a.logger.Debug("stale forecast response dropped", zap.Uint64("seq", seq))
		return ForecastResult{}, ErrSuperseded
	}

	return ForecastResult{
		Summary: extractSummary(raw, cityLabel),
		Raw:     rawForecast(raw),
	}, nil
}

// extractSummary digs the summary fields out of the first series entry. Every
// field is optional in the payload; absent fields stay zero rather than
// failing.
func extractSummary(raw []byte, cityLabel string) models.ForecastSummary {
	first := gjson.GetBytes(raw, "forecast.list.0")
	if !first.Exists() {
		return models.ForecastSummary{NoData: true}
	}

	city := gjson.GetBytes(raw, "forecast.city.name").String()
	if city == "" {
		city = cityLabel
	}

	return models.ForecastSummary{
		City:        city,
		Time:        first.Get("dt_txt").String(),
		TempC:       first.Get("main.temp").Float(),
		FeelsLikeC:  first.Get("main.feels_like").Float(),
		Description: first.Get("weather.0.description").String(),
	}
}

// rawForecast returns the forecast subtree of the payload, or the whole body
// when the wrapper is missing.
func rawForecast(raw []byte) string {
	if f := gjson.GetBytes(raw, "forecast"); f.Exists() {
		return f.Raw
	}
	return string(raw)
}
