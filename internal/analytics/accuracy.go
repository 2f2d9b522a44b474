package analytics

import (
	"sort"
	"time"

	"github.com/weatherdesk/weatherdesk/internal/weather"
)

// rollingWindow is the trailing window size for the smoothed error trend.
const rollingWindow = 3

// ForecastLookup is the slice of the store the accuracy engine needs.
type ForecastLookup interface {
	ForecastFor(city string, date time.Time) (float64, bool, error)
	UpsertAccuracy(city string, date time.Time, predictedAvg, actualAvg float64) error
}

// EvaluateForecastAccuracy matches the forecast that was cached for
// yesterday against today's observed average temperature and records the
// absolute error. A missing forecast for yesterday is the normal steady
// state for new cities and is not an error.
func EvaluateForecastAccuracy(lookup ForecastLookup, city string, today time.Time, actualAvg float64) error {
	yesterday := today.AddDate(0, 0, -1)

	predicted, ok, err := lookup.ForecastFor(city, yesterday)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	return lookup.UpsertAccuracy(city, yesterday, predicted, actualAvg)
}

// MeanAbsoluteError averages the absolute errors, rounded to two decimals.
// The second return value is false when there is nothing to average.
func MeanAbsoluteError(points []weather.AccuracyPoint) (float64, bool) {
	if len(points) == 0 {
		return 0, false
	}

	var sum float64
	for _, p := range points {
		sum += p.AbsError
	}
	return weather.Round2(sum / float64(len(points))), true
}

// TrendPoint is one entry of the smoothed accuracy trend. RollingMAE is nil
// until the trailing window has filled.
type TrendPoint struct {
	Date       time.Time `json:"date"`
	AbsError   float64   `json:"absError"`
	RollingMAE *float64  `json:"rollingMae,omitempty"`
}

// AccuracyTrend sorts the points ascending by date and overlays a trailing
// rolling mean. The first windowSize-1 points have no rolling value, per
// standard trailing-window semantics.
func AccuracyTrend(points []weather.AccuracyPoint) []TrendPoint {
	sorted := make([]weather.AccuracyPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	trend := make([]TrendPoint, 0, len(sorted))
	for i, p := range sorted {
		tp := TrendPoint{Date: p.Date, AbsError: p.AbsError}

		if i >= rollingWindow-1 {
			var sum float64
			for j := i - rollingWindow + 1; j <= i; j++ {
				sum += sorted[j].AbsError
			}
			mean := weather.Round2(sum / rollingWindow)
			tp.RollingMAE = &mean
		}

		trend = append(trend, tp)
	}
	return trend
}
