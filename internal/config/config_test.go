package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Make sure ambient env vars don't leak into the test.
	for _, key := range []string{
		"WEATHER_API_KEY", "WEATHERAPI_KEY", "BASE_URL", "WEATHERAPI_BASE_URL",
		"REQUEST_TIMEOUT", "FORECAST_DAYS", "DB_PATH", "PORT",
		"REFRESH_INTERVAL", "REFRESH_CITIES",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OpenWeatherBaseURL != "https://api.openweathermap.org/data/2.5" {
		t.Errorf("OpenWeatherBaseURL = %q", cfg.OpenWeatherBaseURL)
	}
	if cfg.WeatherAPIComBaseURL != "https://api.weatherapi.com/v1" {
		t.Errorf("WeatherAPIComBaseURL = %q", cfg.WeatherAPIComBaseURL)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.ForecastDays != 5 {
		t.Errorf("ForecastDays = %d, want 5", cfg.ForecastDays)
	}
	if cfg.DBPath != "storage/weather.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	// Keys may legitimately be absent at startup.
	if cfg.WeatherAPIKey != "" || cfg.WeatherAPIComKey != "" {
		t.Error("keys should be empty when unset")
	}
	if cfg.RefreshInterval != 0 || len(cfg.RefreshCities) != 0 {
		t.Error("auto-refresh should be disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "25")
	t.Setenv("FORECAST_DAYS", "3")
	t.Setenv("REFRESH_INTERVAL", "30m")
	t.Setenv("REFRESH_CITIES", "Paris, London ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.RequestTimeout != 25*time.Second {
		t.Errorf("RequestTimeout = %v, want 25s", cfg.RequestTimeout)
	}
	if cfg.ForecastDays != 3 {
		t.Errorf("ForecastDays = %d, want 3", cfg.ForecastDays)
	}
	if cfg.RefreshInterval != 30*time.Minute {
		t.Errorf("RefreshInterval = %v, want 30m", cfg.RefreshInterval)
	}
	if len(cfg.RefreshCities) != 2 || cfg.RefreshCities[0] != "Paris" || cfg.RefreshCities[1] != "London" {
		t.Errorf("RefreshCities = %v, want [Paris London]", cfg.RefreshCities)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "-1")
	if _, err := Load(); err == nil {
		t.Error("expected error for negative REQUEST_TIMEOUT")
	}

	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("REFRESH_INTERVAL", "not-a-duration")
	if _, err := Load(); err == nil {
		t.Error("expected error for invalid REFRESH_INTERVAL")
	}
}
