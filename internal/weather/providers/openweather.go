package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/weatherdesk/weatherdesk/internal/weather"
)

// OpenWeatherProvider fetches current weather from OpenWeatherMap. Current
// weather is the critical path of an analysis cycle, so failures surface
// immediately without retry.
type OpenWeatherProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		circuit: newCircuit("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return "openweather"
}

// Current fetches the current observation for a city.
func (p *OpenWeatherProvider) Current(ctx context.Context, city string) (weather.Observation, error) {
	if p.apiKey == "" {
		return weather.Observation{}, fmt.Errorf("openweather: %w", weather.ErrMissingCredential)
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/weather?%s", p.baseURL, values.Encode()), nil)
	if err != nil {
		return weather.Observation{}, fmt.Errorf("%w: %v", weather.ErrNetwork, err)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return weather.Observation{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return weather.Observation{}, classifyTransportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return weather.Observation{}, upstreamError("openweather", resp.StatusCode, body)
	}

	var payload struct {
		Name string `json:"name"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
			Pressure  float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Observation{}, fmt.Errorf("%w: %v", weather.ErrMalformedPayload, err)
	}

	obs := weather.Observation{
		City:        payload.Name,
		Temperature: payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		WindSpeed:   payload.Wind.Speed,
	}
	if len(payload.Weather) > 0 {
		obs.Condition = payload.Weather[0].Main
	}
	if obs.City == "" {
		obs.City = city
	}

	return obs, nil
}

// Forecast fetches the OpenWeatherMap daily forecast and normalizes it into
// canonical per-day records. This is the alternate forecast source; the
// primary one lives in WeatherAPIProvider.
func (p *OpenWeatherProvider) Forecast(ctx context.Context, city string, days int) ([]weather.ForecastDay, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather: %w", weather.ErrMissingCredential)
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	values.Set("cnt", fmt.Sprintf("%d", days))

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/forecast/daily?%s", p.baseURL, values.Encode()), nil)
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
		return nil, upstreamError("openweather", resp.StatusCode, body)
	}

	return weather.NormalizeOpenWeatherDaily(body)
}

// upstreamError extracts the provider's own message from an error body; the
// message is surfaced verbatim.
func upstreamError(provider string, status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)

	msg := payload.Message
	if msg == "" {
		msg = payload.Error.Message
	}

	return &weather.UpstreamError{Provider: provider, Status: status, Message: msg}
}
