package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/weatherdesk/weatherdesk/internal/weather"
)

// forecastAttempts is the total attempt budget for a forecast fetch. Only
// timeouts consume additional attempts; every other failure surfaces on the
// attempt it happened.
const forecastAttempts = 3

// WeatherAPIProvider fetches the daily forecast from WeatherAPI.com and
// normalizes it into canonical per-day records.
type WeatherAPIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker

	// retryDelay is the pause between timeout retries. Tests shrink it.
	retryDelay time.Duration
}

func NewWeatherAPIProvider(client *http.Client, apiKey, baseURL string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		client:     client,
		circuit:    newCircuit("weatherapi"),
		retryDelay: 1 * time.Second,
	}
}

func (p *WeatherAPIProvider) Name() string {
	return "weatherapi"
}

// Forecast fetches the N-day forecast. Timeouts are retried up to the
// attempt budget with a fixed pause between attempts; any other transport or
// upstream failure is returned immediately. Exhausting the budget yields
// weather.ErrForecastUnavailable.
func (p *WeatherAPIProvider) Forecast(ctx context.Context, city string, days int) ([]weather.ForecastDay, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("weatherapi: %w", weather.ErrMissingCredential)
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", city)
	values.Set("days", fmt.Sprintf("%d", days))
	values.Set("aqi", "no")
	values.Set("alerts", "no")

	endpoint := fmt.Sprintf("%s/forecast.json?%s", p.baseURL, values.Encode())

	for attempt := 0; attempt < forecastAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(p.retryDelay)
		}

		window, err := p.fetchOnce(ctx, endpoint)
		if err != nil {
			if errors.Is(err, weather.ErrTimeout) {
				continue
			}
			return nil, err
		}
		return window, nil
	}

	return nil, weather.ErrForecastUnavailable
}

func (p *WeatherAPIProvider) fetchOnce(ctx context.Context, endpoint string) ([]weather.ForecastDay, error) {
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrNetwork, err)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError("weatherapi", resp.StatusCode, body)
	}

	return weather.NormalizeWeatherAPIForecast(body)
}
