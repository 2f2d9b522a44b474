package weather

import "context"

// Observation is the raw current-weather reading extracted from a provider
// response, before derived indicators are computed.
type Observation struct {
	City        string
	Temperature float64
	FeelsLike   float64
	Humidity    float64
	Pressure    float64
	WindSpeed   float64
	Condition   string
}

// CurrentProvider abstracts the current-weather upstream.
type CurrentProvider interface {
	Name() string
	Current(ctx context.Context, city string) (Observation, error)
}

// ForecastProvider abstracts a daily-forecast upstream. Implementations
// return already-normalized per-day records so downstream code never
// branches on provider identity.
type ForecastProvider interface {
	Name() string
	Forecast(ctx context.Context, city string, days int) ([]ForecastDay, error)
}
