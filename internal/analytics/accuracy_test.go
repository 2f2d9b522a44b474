package analytics

import (
	"testing"
	"time"

	"github.com/weatherdesk/weatherdesk/internal/weather"
)

func day(s string) time.Time {
	d, err := time.Parse(weather.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

// fakeLookup records accuracy engine interactions with the store.
type fakeLookup struct {
	forecasts map[string]float64 // key: city|date

	upserts []upsertCall
}

type upsertCall struct {
	city                    string
	date                    time.Time
	predictedAvg, actualAvg float64
}

func (f *fakeLookup) ForecastFor(city string, date time.Time) (float64, bool, error) {
	avg, ok := f.forecasts[city+"|"+date.Format(weather.DateLayout)]
	return avg, ok, nil
}

func (f *fakeLookup) UpsertAccuracy(city string, date time.Time, predictedAvg, actualAvg float64) error {
	f.upserts = append(f.upserts, upsertCall{city, date, predictedAvg, actualAvg})
	return nil
}

func TestEvaluateForecastAccuracyMatchesYesterday(t *testing.T) {
	lookup := &fakeLookup{forecasts: map[string]float64{
		"Paris|2024-03-01": 10.0,
	}}

	today := day("2024-03-02")
	if err := EvaluateForecastAccuracy(lookup, "Paris", today, 13.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(lookup.upserts) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(lookup.upserts))
	}
	call := lookup.upserts[0]
	if call.city != "Paris" || !call.date.Equal(day("2024-03-01")) {
		t.Errorf("upsert keyed on %s/%s, want Paris/2024-03-01", call.city, call.date.Format(weather.DateLayout))
	}
	if call.predictedAvg != 10.0 || call.actualAvg != 13.5 {
		t.Errorf("upsert values = (%v, %v), want (10.0, 13.5)", call.predictedAvg, call.actualAvg)
	}
}

func TestEvaluateForecastAccuracyNoForecastIsNoop(t *testing.T) {
	lookup := &fakeLookup{forecasts: map[string]float64{}}

	if err := EvaluateForecastAccuracy(lookup, "Paris", day("2024-03-02"), 13.5); err != nil {
		t.Fatalf("a missing forecast for yesterday must not be an error, got %v", err)
	}
	if len(lookup.upserts) != 0 {
		t.Errorf("expected no upserts, got %d", len(lookup.upserts))
	}
}

func TestMeanAbsoluteError(t *testing.T) {
	if _, ok := MeanAbsoluteError(nil); ok {
		t.Error("empty input must report no MAE")
	}

	mae, ok := MeanAbsoluteError([]weather.AccuracyPoint{
		{Date: day("2024-03-01"), AbsError: 2.0},
		{Date: day("2024-03-02"), AbsError: 4.0},
	})
	if !ok || mae != 3.0 {
		t.Errorf("MAE = (%v, %v), want (3.0, true)", mae, ok)
	}

	mae, ok = MeanAbsoluteError([]weather.AccuracyPoint{
		{Date: day("2024-03-01"), AbsError: 1.0},
		{Date: day("2024-03-02"), AbsError: 2.0},
		{Date: day("2024-03-03"), AbsError: 2.5},
	})
	if !ok || mae != 1.83 {
		t.Errorf("MAE = (%v, %v), want rounded 1.83", mae, ok)
	}
}

func TestAccuracyTrendTrailingWindow(t *testing.T) {
	points := []weather.AccuracyPoint{
		{Date: day("2024-03-01"), AbsError: 1},
		{Date: day("2024-03-02"), AbsError: 2},
		{Date: day("2024-03-03"), AbsError: 3},
		{Date: day("2024-03-04"), AbsError: 4},
		{Date: day("2024-03-05"), AbsError: 5},
	}

	trend := AccuracyTrend(points)
	if len(trend) != 5 {
		t.Fatalf("expected 5 trend points, got %d", len(trend))
	}

	// First two points of a trailing 3-window have no rolling value.
	if trend[0].RollingMAE != nil || trend[1].RollingMAE != nil {
		t.Error("first two rolling values must be undefined")
	}
	for i, want := range []float64{2.0, 3.0, 4.0} {
		got := trend[i+2].RollingMAE
		if got == nil || *got != want {
			t.Errorf("rolling[%d] = %v, want %v", i+2, got, want)
		}
	}
}

func TestAccuracyTrendSortsByDate(t *testing.T) {
	points := []weather.AccuracyPoint{
		{Date: day("2024-03-03"), AbsError: 3},
		{Date: day("2024-03-01"), AbsError: 1},
		{Date: day("2024-03-02"), AbsError: 2},
	}

	trend := AccuracyTrend(points)
	for i, want := range []float64{1, 2, 3} {
		if trend[i].AbsError != want {
			t.Errorf("trend[%d].AbsError = %v, want %v (input must be sorted by date)", i, trend[i].AbsError, want)
		}
	}
	if trend[2].RollingMAE == nil || *trend[2].RollingMAE != 2.0 {
		t.Errorf("rolling[2] = %v, want 2.0", trend[2].RollingMAE)
	}

	// Input slice must not be reordered.
	if points[0].AbsError != 3 {
		t.Error("AccuracyTrend must not mutate its input")
	}
}
