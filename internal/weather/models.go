package weather

import (
	"strings"
	"time"
)

// Snapshot is one point-in-time current-weather observation for a city,
// enriched with the derived comfort and health indicators. Snapshots are
// append-only; the store assigns the timestamp at insert time.
type Snapshot struct {
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feelsLike"`
	Humidity    float64   `json:"humidity"`
	Pressure    float64   `json:"pressure"`
	WindSpeed   float64   `json:"windSpeed"`
	Condition   string    `json:"condition"`
	Comfort     float64   `json:"comfort"`
	Health      int       `json:"health"`
	Timestamp   time.Time `json:"timestamp"`
}

// ForecastDay is one normalized forecast entry for a city+date. Icon and
// RainProb are optional upstream fields; a nil RainProb means the source did
// not supply a rain probability at all, which alerting must distinguish from
// a probability of zero.
type ForecastDay struct {
	Date      time.Time `json:"date"` // calendar day, no time component
	MinTemp   float64   `json:"minTemp"`
	MaxTemp   float64   `json:"maxTemp"`
	AvgTemp   float64   `json:"avgTemp"`
	Condition string    `json:"condition,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	RainProb  *int      `json:"rainProb,omitempty"`
}

// HistoryPoint is the slim history projection served to the dashboard's
// temperature and health trend charts.
type HistoryPoint struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Health      int       `json:"health"`
}

// AccuracyPoint is one evaluated prediction: the absolute error between the
// average temperature forecast for Date and the value actually observed.
type AccuracyPoint struct {
	Date     time.Time `json:"date"`
	AbsError float64   `json:"absError"`
}

// ForecastSource tells the dashboard where the forecast window in an
// Analysis came from.
type ForecastSource string

const (
	SourceLive        ForecastSource = "live"
	SourceCached      ForecastSource = "cached"
	SourceUnavailable ForecastSource = "unavailable"
)

// DateLayout is the canonical calendar-day format used for forecast and
// accuracy keys throughout the system.
const DateLayout = "2006-01-02"

// ValidateCity rejects empty or too-short city names before any upstream
// call is made.
func ValidateCity(city string) error {
	if len(strings.TrimSpace(city)) < 2 {
		return ErrInvalidCity
	}
	return nil
}
