// Package view maps application state to text. Functions here are pure: no
// I/O, no mutation, so every view is testable as a string and the callers
// re-render wholesale instead of patching previous output.
package view

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/pretty"

	"github.com/Ulannnnnnn/WebFinal/internal/app"
	"github.com/Ulannnnnnn/WebFinal/internal/models"
)

// EmptyFavorites is the explicit empty-state line.
const EmptyFavorites = "No favorites yet. Add one above."

// LoadingForecast is the in-flight placeholder.
const LoadingForecast = "Loading forecast..."

// NoForecastData is the note rendered when the series is empty.
const NoForecastData = "No forecast data"

// Favorites renders the list as numbered rows, or the empty-state line. The
// row number is how the interactive shell addresses an entry.
func Favorites(items []models.Favorite) string {
	if len(items) == 0 {
		return EmptyFavorites
	}

	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, item.Label)
		fmt.Fprintf(&b, "    %s\n", FavoriteSubtext(item))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FavoriteSubtext is the row's second line: "City • lat, lon".
func FavoriteSubtext(item models.Favorite) string {
	return fmt.Sprintf("%s • %s, %s", item.City, Coordinate(item.Lat), Coordinate(item.Lon))
}

// Coordinate renders a coordinate with minimal digits and no exponent, so
// 52.52 stays "52.52".
func Coordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Forecast renders the summary block followed by the raw payload.
func Forecast(result app.ForecastResult) string {
	var b strings.Builder

	b.WriteString("Summary:\n")
	if result.Summary.NoData {
		b.WriteString(NoForecastData)
	} else {
		b.WriteString(summaryJSON(result.Summary))
	}

	b.WriteString("\n\nRaw response (for debugging):\n")
	b.WriteString(strings.TrimRight(string(pretty.Pretty([]byte(result.Raw))), "\n"))
	return b.String()
}

func summaryJSON(s models.ForecastSummary) string {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		// Summary is a plain struct; this cannot realistically fail.
		return fmt.Sprintf("%+v", s)
	}
	return string(data)
}

// Profile pretty-prints the raw profile object.
func Profile(raw json.RawMessage) string {
	return strings.TrimRight(string(pretty.Pretty(raw)), "\n")
}
