package analytics

import (
	"fmt"
	"strings"

	"github.com/weatherdesk/weatherdesk/internal/weather"
)

// Alert thresholds over the forecast window.
const (
	heatwaveMaxTemp = 40.0
	coldWaveMinTemp = 5.0
	heavyRainProb   = 70
)

// GenerateAlerts scans a forecast window and returns advisory messages. Each
// rule contributes at most one message covering all matching days, named by
// weekday. The rain rule only considers days where the source actually
// supplied a rain probability.
func GenerateAlerts(window []weather.ForecastDay) []string {
	var alerts []string

	var hotDays []string
	for _, d := range window {
		if d.MaxTemp >= heatwaveMaxTemp {
			hotDays = append(hotDays, d.Date.Weekday().String())
		}
	}
	if len(hotDays) > 0 {
		alerts = append(alerts, fmt.Sprintf(
			"🔥 Heatwave alert: Very high temperatures expected on %s.", strings.Join(hotDays, ", ")))
	}

	var coldDays []string
	for _, d := range window {
		if d.MinTemp <= coldWaveMinTemp {
			coldDays = append(coldDays, d.Date.Weekday().String())
		}
	}
	if len(coldDays) > 0 {
		alerts = append(alerts, fmt.Sprintf(
			"❄️ Cold wave alert: Extremely low temperatures expected on %s.", strings.Join(coldDays, ", ")))
	}

	var rainyDays []string
	for _, d := range window {
		if d.RainProb != nil && *d.RainProb >= heavyRainProb {
			rainyDays = append(rainyDays, d.Date.Weekday().String())
		}
	}
	if len(rainyDays) > 0 {
		alerts = append(alerts, fmt.Sprintf(
			"🌧️ Heavy rain alert: High chance of rain on %s.", strings.Join(rainyDays, ", ")))
	}

	return alerts
}
