package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds everything sourced from the environment. API keys are
// optional here; a missing key only surfaces when the corresponding provider
// is actually invoked.
type AppConfig struct {
	// OpenWeather (current weather).
	WeatherAPIKey      string
	OpenWeatherBaseURL string

	// WeatherAPI.com (daily forecast).
	WeatherAPIComKey     string
	WeatherAPIComBaseURL string

	// RequestTimeout bounds every outbound provider call.
	RequestTimeout time.Duration

	// ForecastDays is the width of the requested forecast window.
	ForecastDays int

	// DBPath is the SQLite database file.
	DBPath string

	Port string

	// Optional auto-refresh: when RefreshInterval > 0 the scheduler reruns
	// the analysis cycle for RefreshCities.
	RefreshInterval time.Duration
	RefreshCities   []string
}

// Load reads configuration from environment with documented defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	cfg.WeatherAPIComKey = os.Getenv("WEATHERAPI_KEY")

	cfg.OpenWeatherBaseURL = getenvDefault("BASE_URL", "https://api.openweathermap.org/data/2.5")
	cfg.WeatherAPIComBaseURL = getenvDefault("WEATHERAPI_BASE_URL", "https://api.weatherapi.com/v1")

	timeoutSecs := getenvInt("REQUEST_TIMEOUT", 10)
	if timeoutSecs <= 0 {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: must be positive, got %d", timeoutSecs)
	}
	cfg.RequestTimeout = time.Duration(timeoutSecs) * time.Second

	cfg.ForecastDays = getenvInt("FORECAST_DAYS", 5)
	if cfg.ForecastDays <= 0 {
		return nil, fmt.Errorf("invalid FORECAST_DAYS: must be positive, got %d", cfg.ForecastDays)
	}

	cfg.DBPath = getenvDefault("DB_PATH", "storage/weather.db")
	cfg.Port = getenvDefault("PORT", "8080")

	if intervalStr := os.Getenv("REFRESH_INTERVAL"); intervalStr != "" {
		interval, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
		}
		cfg.RefreshInterval = interval
	}

	if cities := os.Getenv("REFRESH_CITIES"); cities != "" {
		for _, city := range strings.Split(cities, ",") {
			if city = strings.TrimSpace(city); city != "" {
				cfg.RefreshCities = append(cfg.RefreshCities, city)
			}
		}
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
