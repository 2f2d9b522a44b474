package analytics

import (
	"math"

	"github.com/weatherdesk/weatherdesk/internal/weather"
)

// Wind risk categories.
const (
	RiskHigh     = "High"
	RiskModerate = "Moderate"
	RiskLow      = "Low"
)

// ComfortIndex scores how pleasant conditions are on a 0-100 scale. The
// ideal is 22°C at 50% humidity; every degree and humidity point away costs
// points.
func ComfortIndex(temp, humidity float64) float64 {
	score := 100 - math.Abs(temp-22)*2 - math.Abs(humidity-50)*0.5
	score = math.Min(score, 100)
	score = math.Max(score, 0)
	return weather.Round2(score)
}

// WindRisk categorizes wind chill exposure.
func WindRisk(temp, windSpeed float64) string {
	if temp < 10 && windSpeed > 6 {
		return RiskHigh
	}
	if temp < 15 {
		return RiskModerate
	}
	return RiskLow
}

// HealthScore is a bounded 0-100 score. Every applicable penalty applies in
// the same evaluation; the score never drops below zero.
func HealthScore(temperature, humidity, windSpeed float64) int {
	score := 100

	if humidity > 80 {
		score -= 15
	}
	if windSpeed > 10 {
		score -= 10
	}
	if temperature < 5 || temperature > 38 {
		score -= 25
	}

	if score < 0 {
		score = 0
	}
	return score
}
