package weather

import "github.com/weatherdesk/weatherdesk/internal/common"

// ConditionEmoji maps a free-text condition label to an emoji icon for the
// dashboard. Unknown conditions fall back to a thermometer.
func ConditionEmoji(condition string) string {
	if condition == "" {
		return "🌡️"
	}

	switch {
	case common.HasAny(condition, "sun", "clear"):
		return "☀️"
	case common.HasAny(condition, "cloud", "overcast"):
		return "☁️"
	case common.HasAny(condition, "rain", "drizzle", "shower", "patchy"):
		return "🌧️"
	case common.HasAny(condition, "thunder", "storm"):
		return "⛈️"
	case common.HasAny(condition, "snow", "blizzard", "sleet"):
		return "❄️"
	case common.HasAny(condition, "mist", "fog", "haze"):
		return "🌫️"
	default:
		return "🌡️"
	}
}
