package store

import (
	"errors"
	"math"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/weatherdesk/weatherdesk/internal/weather"
)

// Store is the SQLite-backed persistence layer. It owns three tables: an
// append-only snapshot log, a replace-on-write forecast cache, and the
// forecast accuracy log. Open it once at startup and pass the handle down;
// it assumes a single-writer access pattern.
type Store struct {
	db *gorm.DB
}

// WeatherRecord is one row of the weather_history log.
type WeatherRecord struct {
	ID          uint   `gorm:"primaryKey"`
	City        string `gorm:"index"`
	Temperature float64
	FeelsLike   float64
	Humidity    float64
	Pressure    float64
	WindSpeed   float64
	Condition   string
	Comfort     float64
	Health      int
	Timestamp   time.Time `gorm:"autoCreateTime;index"`
}

func (WeatherRecord) TableName() string { return "weather_history" }

// ForecastRecord is one cached forecast day. The set of rows for a city is
// always replaced wholesale, never mixed with a previous window.
type ForecastRecord struct {
	ID        uint   `gorm:"primaryKey"`
	City      string `gorm:"index:idx_forecast_city_date"`
	Date      string `gorm:"index:idx_forecast_city_date"` // YYYY-MM-DD
	MinTemp   float64
	MaxTemp   float64
	AvgTemp   float64
	Condition string
	Icon      string
	RainProb  *int
	FetchedAt time.Time `gorm:"autoCreateTime"`
}

func (ForecastRecord) TableName() string { return "weather_forecast" }

// AccuracyRecord is one evaluated prediction, at most one per (city, date).
type AccuracyRecord struct {
	ID           uint   `gorm:"primaryKey"`
	City         string `gorm:"index:idx_accuracy_city_date"`
	Date         string `gorm:"index:idx_accuracy_city_date"` // YYYY-MM-DD
	PredictedAvg float64
	ActualAvg    float64
	AbsError     float64
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (AccuracyRecord) TableName() string { return "forecast_accuracy" }

// Open opens (creating if needed) the SQLite database at path and applies
// migrations. AutoMigrate only ever adds tables and columns, so schema
// evolution stays additive and non-destructive.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, &weather.StorageError{Op: "open", Err: err}
	}

	if err := db.AutoMigrate(&WeatherRecord{}, &ForecastRecord{}, &AccuracyRecord{}); err != nil {
		return nil, &weather.StorageError{Op: "migrate", Err: err}
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return &weather.StorageError{Op: "close", Err: err}
	}
	return sqlDB.Close()
}

// RecordSnapshot appends one observation to the history log. The row
// timestamp is assigned here, not by the caller.
func (s *Store) RecordSnapshot(snap weather.Snapshot) error {
	rec := WeatherRecord{
		City:        snap.City,
		Temperature: snap.Temperature,
		FeelsLike:   snap.FeelsLike,
		Humidity:    snap.Humidity,
		Pressure:    snap.Pressure,
		WindSpeed:   snap.WindSpeed,
		Condition:   snap.Condition,
		Comfort:     snap.Comfort,
		Health:      snap.Health,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return &weather.StorageError{Op: "record snapshot", Err: err}
	}
	return nil
}

// History returns up to limit history points for a city, ascending by
// timestamp. When more than limit rows exist the earliest ones win; callers
// wanting the full trend pass a limit at least as large as the row count.
func (s *Store) History(city string, limit int) ([]weather.HistoryPoint, error) {
	var points []weather.HistoryPoint
	err := s.db.Model(&WeatherRecord{}).
		Select("timestamp", "temperature", "health").
		Where("city = ?", city).
		Order("timestamp asc").
		Limit(limit).
		Scan(&points).Error
	if err != nil {
		return nil, &weather.StorageError{Op: "history", Err: err}
	}
	return points, nil
}

// ReplaceForecast atomically swaps the cached forecast window for a city.
// Delete and insert share one transaction so a partial failure never leaves
// mixed old and new days visible.
func (s *Store) ReplaceForecast(city string, days []weather.ForecastDay) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("city = ?", city).Delete(&ForecastRecord{}).Error; err != nil {
			return err
		}
		for _, d := range days {
			rec := ForecastRecord{
				City:      city,
				Date:      d.Date.Format(weather.DateLayout),
				MinTemp:   d.MinTemp,
				MaxTemp:   d.MaxTemp,
				AvgTemp:   d.AvgTemp,
				Condition: d.Condition,
				Icon:      d.Icon,
				RainProb:  d.RainProb,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &weather.StorageError{Op: "replace forecast", Err: err}
	}
	return nil
}

// CachedForecast returns the cached forecast window for a city, ascending by
// date. An empty window is not an error.
func (s *Store) CachedForecast(city string) ([]weather.ForecastDay, error) {
	var recs []ForecastRecord
	err := s.db.Where("city = ?", city).Order("date asc").Find(&recs).Error
	if err != nil {
		return nil, &weather.StorageError{Op: "cached forecast", Err: err}
	}

	days := make([]weather.ForecastDay, 0, len(recs))
	for _, r := range recs {
		date, err := time.Parse(weather.DateLayout, r.Date)
		if err != nil {
			return nil, &weather.StorageError{Op: "cached forecast", Err: err}
		}
		days = append(days, weather.ForecastDay{
			Date:      date,
			MinTemp:   r.MinTemp,
			MaxTemp:   r.MaxTemp,
			AvgTemp:   r.AvgTemp,
			Condition: r.Condition,
			Icon:      r.Icon,
			RainProb:  r.RainProb,
		})
	}
	return days, nil
}

// ForecastFor looks up the average temperature that was forecast for a
// city+date. The second return value reports whether a forecast existed.
func (s *Store) ForecastFor(city string, date time.Time) (float64, bool, error) {
	var rec ForecastRecord
	err := s.db.Where("city = ? AND date = ?", city, date.Format(weather.DateLayout)).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, &weather.StorageError{Op: "forecast lookup", Err: err}
	}
	return rec.AvgTemp, true, nil
}

// UpsertAccuracy records an evaluated prediction for a city+date, replacing
// any prior record for that key. Delete and insert commit in one
// transaction.
func (s *Store) UpsertAccuracy(city string, date time.Time, predictedAvg, actualAvg float64) error {
	day := date.Format(weather.DateLayout)
	rec := AccuracyRecord{
		City:         city,
		Date:         day,
		PredictedAvg: predictedAvg,
		ActualAvg:    actualAvg,
		AbsError:     math.Abs(predictedAvg - actualAvg),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("city = ? AND date = ?", city, day).Delete(&AccuracyRecord{}).Error; err != nil {
			return err
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return &weather.StorageError{Op: "upsert accuracy", Err: err}
	}
	return nil
}

// AccuracyHistory returns all evaluated predictions for a city, ascending by
// date.
func (s *Store) AccuracyHistory(city string) ([]weather.AccuracyPoint, error) {
	var recs []AccuracyRecord
	err := s.db.Where("city = ?", city).Order("date asc").Find(&recs).Error
	if err != nil {
		return nil, &weather.StorageError{Op: "accuracy history", Err: err}
	}

	points := make([]weather.AccuracyPoint, 0, len(recs))
	for _, r := range recs {
		date, err := time.Parse(weather.DateLayout, r.Date)
		if err != nil {
			return nil, &weather.StorageError{Op: "accuracy history", Err: err}
		}
		points = append(points, weather.AccuracyPoint{Date: date, AbsError: r.AbsError})
	}
	return points, nil
}
