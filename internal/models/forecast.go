package models

// ForecastSummary is the single-entry digest extracted from the first element
// of the forecast series. A zero summary with NoData set means the series was
// empty; the fields mirror what the backend's forecast payload exposes.
type ForecastSummary struct {
	City        string  `json:"city"`
	Time        string  `json:"time"`
	TempC       float64 `json:"tempC"`
	FeelsLikeC  float64 `json:"feelsLikeC"`
	Description string  `json:"description"`
	NoData      bool    `json:"-"`
}
