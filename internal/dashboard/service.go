package dashboard

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/weatherdesk/weatherdesk/internal/analytics"
	"github.com/weatherdesk/weatherdesk/internal/weather"
)

// Store is the persistence contract the analysis cycle depends on. The
// SQLite store satisfies it; tests substitute fakes.
type Store interface {
	RecordSnapshot(snap weather.Snapshot) error
	History(city string, limit int) ([]weather.HistoryPoint, error)
	ReplaceForecast(city string, days []weather.ForecastDay) error
	CachedForecast(city string) ([]weather.ForecastDay, error)
	ForecastFor(city string, date time.Time) (float64, bool, error)
	UpsertAccuracy(city string, date time.Time, predictedAvg, actualAvg float64) error
	AccuracyHistory(city string) ([]weather.AccuracyPoint, error)
}

// Service runs the analysis cycle that feeds the dashboard: fetch, derive,
// persist, evaluate accuracy, alert. Cycles are synchronous and run one at a
// time.
type Service struct {
	store    Store
	current  weather.CurrentProvider
	forecast weather.ForecastProvider

	forecastDays int
	now          func() time.Time
}

// NewService creates a Service. forecastDays is the width of the forecast
// window requested from the provider.
func NewService(store Store, current weather.CurrentProvider, forecast weather.ForecastProvider, forecastDays int) *Service {
	return &Service{
		store:        store,
		current:      current,
		forecast:     forecast,
		forecastDays: forecastDays,
		now:          time.Now,
	}
}

// Analysis is everything one cycle produces for the dashboard to render.
type Analysis struct {
	Snapshot       weather.Snapshot       `json:"snapshot"`
	WindRisk       string                 `json:"windRisk"`
	Emoji          string                 `json:"emoji"`
	Forecast       []weather.ForecastDay  `json:"forecast"`
	ForecastSource weather.ForecastSource `json:"forecastSource"`
	Alerts         []string               `json:"alerts"`
	MAE            *float64               `json:"mae,omitempty"`
	Trend          []analytics.TrendPoint `json:"trend"`
}

// Analyze runs one full cycle for a city. A current-weather failure aborts
// the cycle; a forecast failure degrades to the cached window. Storage
// failures always surface.
func (s *Service) Analyze(ctx context.Context, city string) (*Analysis, error) {
	if err := weather.ValidateCity(city); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log.Printf("INFO: [%s] starting analysis cycle for %q", runID, city)

	obs, err := s.current.Current(ctx, city)
	if err != nil {
		log.Printf("ERROR: [%s] current weather fetch failed: %v", runID, err)
		return nil, err
	}

	snap := weather.Snapshot{
		City:        obs.City,
		Temperature: obs.Temperature,
		FeelsLike:   obs.FeelsLike,
		Humidity:    obs.Humidity,
		Pressure:    obs.Pressure,
		WindSpeed:   obs.WindSpeed,
		Condition:   obs.Condition,
		Comfort:     analytics.ComfortIndex(obs.Temperature, obs.Humidity),
		Health:      analytics.HealthScore(obs.Temperature, obs.Humidity, obs.WindSpeed),
	}

	if err := s.store.RecordSnapshot(snap); err != nil {
		return nil, err
	}

	// Match yesterday's cached forecast against today's observation before
	// the cache is replaced with a fresh window.
	if err := analytics.EvaluateForecastAccuracy(s.store, snap.City, s.now(), obs.Temperature); err != nil {
		return nil, err
	}

	window, source, err := s.forecastWindow(ctx, city, snap.City, runID)
	if err != nil {
		return nil, err
	}

	points, err := s.store.AccuracyHistory(snap.City)
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{
		Snapshot:       snap,
		WindRisk:       analytics.WindRisk(obs.Temperature, obs.WindSpeed),
		Emoji:          weather.ConditionEmoji(obs.Condition),
		Forecast:       window,
		ForecastSource: source,
		Alerts:         analytics.GenerateAlerts(window),
		Trend:          analytics.AccuracyTrend(points),
	}
	if mae, ok := analytics.MeanAbsoluteError(points); ok {
		analysis.MAE = &mae
	}

	log.Printf("INFO: [%s] analysis cycle complete for %q (forecast: %s)", runID, snap.City, source)
	return analysis, nil
}

// forecastWindow fetches a fresh forecast and replaces the cache; on
// provider failure it degrades to the last cached window, or reports the
// forecast unavailable when there is none.
func (s *Service) forecastWindow(ctx context.Context, queryCity, cacheCity, runID string) ([]weather.ForecastDay, weather.ForecastSource, error) {
	window, err := s.forecast.Forecast(ctx, queryCity, s.forecastDays)
	if err == nil {
		if err := s.store.ReplaceForecast(cacheCity, window); err != nil {
			return nil, weather.SourceUnavailable, err
		}
		return window, weather.SourceLive, nil
	}

	log.Printf("ERROR: [%s] forecast fetch failed, falling back to cache: %v", runID, err)

	cached, cerr := s.store.CachedForecast(cacheCity)
	if cerr != nil {
		return nil, weather.SourceUnavailable, cerr
	}
	if len(cached) == 0 {
		return nil, weather.SourceUnavailable, nil
	}
	return cached, weather.SourceCached, nil
}

// History exposes the stored snapshot trend for a city.
func (s *Service) History(city string, limit int) ([]weather.HistoryPoint, error) {
	if err := weather.ValidateCity(city); err != nil {
		return nil, err
	}
	return s.store.History(city, limit)
}

// CachedForecast exposes the cached forecast window for a city.
func (s *Service) CachedForecast(city string) ([]weather.ForecastDay, error) {
	if err := weather.ValidateCity(city); err != nil {
		return nil, err
	}
	return s.store.CachedForecast(city)
}

// Accuracy returns the evaluated accuracy history with its aggregate MAE and
// smoothed trend.
func (s *Service) Accuracy(city string) (*AccuracyReport, error) {
	if err := weather.ValidateCity(city); err != nil {
		return nil, err
	}

	points, err := s.store.AccuracyHistory(city)
	if err != nil {
		return nil, err
	}

	report := &AccuracyReport{Trend: analytics.AccuracyTrend(points)}
	if mae, ok := analytics.MeanAbsoluteError(points); ok {
		report.MAE = &mae
	}
	return report, nil
}

// AccuracyReport is the accuracy view served to the dashboard.
type AccuracyReport struct {
	MAE   *float64               `json:"mae,omitempty"`
	Trend []analytics.TrendPoint `json:"trend"`
}
