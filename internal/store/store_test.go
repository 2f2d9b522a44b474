package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/weatherdesk/weatherdesk/internal/weather"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "weather.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return s
}

func day(s string) time.Time {
	d, err := time.Parse(weather.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func intPtr(v int) *int { return &v }

func TestRecordSnapshotAssignsTimestamp(t *testing.T) {
	s := newTestStore(t)

	snap := weather.Snapshot{
		City:        "Paris",
		Temperature: 13.5,
		FeelsLike:   12.1,
		Humidity:    60,
		Pressure:    1012,
		WindSpeed:   4.2,
		Condition:   "Clouds",
		Comfort:     78.0,
		Health:      100,
	}
	if err := s.RecordSnapshot(snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	points, err := s.History("Paris", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if points[0].Timestamp.IsZero() {
		t.Error("timestamp should be assigned by the store")
	}
	if points[0].Temperature != 13.5 || points[0].Health != 100 {
		t.Errorf("unexpected point: %+v", points[0])
	}
}

func TestHistoryAscendingWithLimit(t *testing.T) {
	s := newTestStore(t)

	for _, temp := range []float64{1, 2, 3, 4} {
		if err := s.RecordSnapshot(weather.Snapshot{City: "Paris", Temperature: temp, Health: 90}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}
	if err := s.RecordSnapshot(weather.Snapshot{City: "London", Temperature: 99, Health: 50}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Earliest-first truncation: with more rows than limit, the query still
	// returns ascending order starting from the oldest rows.
	points, err := s.History("Paris", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	for i, want := range []float64{1, 2, 3} {
		if points[i].Temperature != want {
			t.Errorf("point %d temperature = %v, want %v", i, points[i].Temperature, want)
		}
	}
	for i := 1; i < len(points); i++ {
		if points[i].Timestamp.Before(points[i-1].Timestamp) {
			t.Error("history must be ascending by timestamp")
		}
	}
}

func TestReplaceForecastNeverMixesWindows(t *testing.T) {
	s := newTestStore(t)

	oldWindow := []weather.ForecastDay{
		{Date: day("2024-03-01"), MinTemp: 1, MaxTemp: 10, AvgTemp: 5.5},
		{Date: day("2024-03-02"), MinTemp: 2, MaxTemp: 11, AvgTemp: 6.5},
		{Date: day("2024-03-03"), MinTemp: 3, MaxTemp: 12, AvgTemp: 7.5},
	}
	if err := s.ReplaceForecast("Paris", oldWindow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newWindow := []weather.ForecastDay{
		{Date: day("2024-03-02"), MinTemp: 4, MaxTemp: 14, AvgTemp: 9, Condition: "Sunny", Icon: "https://x/s.png", RainProb: intPtr(10)},
		{Date: day("2024-03-03"), MinTemp: 5, MaxTemp: 15, AvgTemp: 10},
	}
	if err := s.ReplaceForecast("Paris", newWindow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cached, err := s.CachedForecast("Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cached) != len(newWindow) {
		t.Fatalf("expected %d rows after replace, got %d", len(newWindow), len(cached))
	}
	if cached[0].AvgTemp != 9 || cached[0].Condition != "Sunny" {
		t.Errorf("unexpected first day: %+v", cached[0])
	}
	if cached[0].RainProb == nil || *cached[0].RainProb != 10 {
		t.Errorf("rainProb not round-tripped: %v", cached[0].RainProb)
	}
	if cached[1].RainProb != nil {
		t.Errorf("absent rainProb must stay nil, got %v", *cached[1].RainProb)
	}
}

func TestReplaceForecastIsPerCity(t *testing.T) {
	s := newTestStore(t)

	if err := s.ReplaceForecast("Paris", []weather.ForecastDay{{Date: day("2024-03-01"), AvgTemp: 5}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.ReplaceForecast("London", []weather.ForecastDay{{Date: day("2024-03-01"), AvgTemp: 7}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cached, err := s.CachedForecast("Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cached) != 1 || cached[0].AvgTemp != 5 {
		t.Errorf("replacing London's window must not touch Paris: %+v", cached)
	}
}

func TestCachedForecastEmptyIsNotAnError(t *testing.T) {
	s := newTestStore(t)

	cached, err := s.CachedForecast("Nowhereville")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cached) != 0 {
		t.Errorf("expected empty window, got %d rows", len(cached))
	}
}

func TestForecastFor(t *testing.T) {
	s := newTestStore(t)

	if err := s.ReplaceForecast("Paris", []weather.ForecastDay{{Date: day("2024-03-01"), AvgTemp: 10.0}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	avg, ok, err := s.ForecastFor("Paris", day("2024-03-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || avg != 10.0 {
		t.Errorf("got (%v, %v), want (10.0, true)", avg, ok)
	}

	_, ok, err = s.ForecastFor("Paris", day("2024-03-09"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("absent forecast must report ok=false, not an error")
	}
}

func TestUpsertAccuracyOverwritesByKey(t *testing.T) {
	s := newTestStore(t)

	date := day("2024-01-01")
	if err := s.UpsertAccuracy("Paris", date, 10.0, 12.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.UpsertAccuracy("Paris", date, 15.0, 12.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	points, err := s.AccuracyHistory("Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected exactly 1 record for the key, got %d", len(points))
	}
	if points[0].AbsError != 3.0 {
		t.Errorf("absError = %v, want 3.0", points[0].AbsError)
	}
}

func TestAccuracyHistoryAscendingByDate(t *testing.T) {
	s := newTestStore(t)

	// Insert out of order.
	for _, d := range []string{"2024-01-03", "2024-01-01", "2024-01-02"} {
		if err := s.UpsertAccuracy("Paris", day(d), 10, 11); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	points, err := s.AccuracyHistory("Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	for i := 1; i < len(points); i++ {
		if !points[i].Date.After(points[i-1].Date) {
			t.Error("accuracy history must be ascending by date")
		}
	}
}
