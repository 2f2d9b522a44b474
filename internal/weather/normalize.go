package weather

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Round2 rounds to two decimal places, matching how derived temperatures and
// scores are presented everywhere in the system.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// NormalizeWeatherAPIForecast converts a raw WeatherAPI forecast response
// into the canonical per-day records, preserving source order. Optional
// fields (condition, icon, rain probability) are left unset when the source
// omits them; temperature ordering is deliberately not validated.
func NormalizeWeatherAPIForecast(data []byte) ([]ForecastDay, error) {
	var payload struct {
		Forecast *struct {
			ForecastDay []struct {
				Date string `json:"date"`
				Day  struct {
					MinTempC  float64  `json:"mintemp_c"`
					MaxTempC  float64  `json:"maxtemp_c"`
					AvgTempC  *float64 `json:"avgtemp_c"`
					Condition struct {
						Text string `json:"text"`
						Icon string `json:"icon"`
					} `json:"condition"`
					DailyChanceOfRain *int `json:"daily_chance_of_rain"`
				} `json:"day"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if payload.Forecast == nil || payload.Forecast.ForecastDay == nil {
		return nil, fmt.Errorf("%w: missing forecast.forecastday", ErrMalformedPayload)
	}

	days := make([]ForecastDay, 0, len(payload.Forecast.ForecastDay))
	for _, fd := range payload.Forecast.ForecastDay {
		date, err := time.Parse(DateLayout, fd.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad forecast date %q", ErrMalformedPayload, fd.Date)
		}

		day := ForecastDay{
			Date:      date,
			MinTemp:   fd.Day.MinTempC,
			MaxTemp:   fd.Day.MaxTempC,
			Condition: fd.Day.Condition.Text,
			RainProb:  fd.Day.DailyChanceOfRain,
		}

		if fd.Day.AvgTempC != nil {
			day.AvgTemp = *fd.Day.AvgTempC
		} else {
			day.AvgTemp = Round2((fd.Day.MinTempC + fd.Day.MaxTempC) / 2)
		}

		// WeatherAPI ships protocol-relative icon URLs.
		if icon := fd.Day.Condition.Icon; icon != "" {
			if strings.HasPrefix(icon, "//") {
				icon = "https:" + icon
			}
			day.Icon = icon
		}

		days = append(days, day)
	}

	return days, nil
}

// NormalizeOpenWeatherDaily converts the OpenWeatherMap daily-forecast shape
// (the `list` array with per-day temp min/max) into the same canonical
// records. The source supplies no average temperature, so it is derived as
// the min/max midpoint rounded to two decimals.
func NormalizeOpenWeatherDaily(data []byte) ([]ForecastDay, error) {
	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Temp struct {
				Min float64 `json:"min"`
				Max float64 `json:"max"`
			} `json:"temp"`
			Weather []struct {
				Main string `json:"main"`
				Icon string `json:"icon"`
			} `json:"weather"`
		} `json:"list"`
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if payload.List == nil {
		return nil, fmt.Errorf("%w: missing forecast list", ErrMalformedPayload)
	}

	days := make([]ForecastDay, 0, len(payload.List))
	for _, item := range payload.List {
		ts := time.Unix(item.Dt, 0).UTC()

		day := ForecastDay{
			Date:    time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			MinTemp: item.Temp.Min,
			MaxTemp: item.Temp.Max,
			AvgTemp: Round2((item.Temp.Min + item.Temp.Max) / 2),
		}
		if len(item.Weather) > 0 {
			day.Condition = item.Weather[0].Main
			day.Icon = item.Weather[0].Icon
		}

		days = append(days, day)
	}

	return days, nil
}
