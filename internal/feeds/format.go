package feeds

import (
	"fmt"
	"time"
)

var weatherIcons = map[int]string{
	0: "☀️", 1: "🌤️", 2: "⛅️", 3: "☁️", 45: "🌫️", 48: "🌫️",
	51: "🌦️", 53: "🌦️", 55: "🌦️", 61: "🌧️", 63: "🌧️", 65: "🌧️",
	80: "🌧️", 81: "⛈️", 82: "⛈️", 95: "⛈️", 96: "🌪️", 99: "🌪️",
}

// Emoji maps a WMO weather code to an icon; unknown codes get "❓".
func Emoji(code int) string {
	if e, ok := weatherIcons[code]; ok {
		return e
	}
	return "❓"
}

// TimeAgo counts whole days between t and now.
func TimeAgo(now, t time.Time) string {
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}
