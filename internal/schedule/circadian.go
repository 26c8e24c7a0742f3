package schedule

import (
	"math"

	"github.com/metaflux/metaflux/internal/constants"
)

// CortisolMultiplier returns the time-of-day cortisol scaling. The curve
// follows the canonical diurnal rhythm: a morning peak after waking, a long
// decline through the afternoon nadir, a small evening bump, and a deep
// night trough.
func CortisolMultiplier(hour float64) float64 {
	h := math.Mod(hour, 24)
	if h < 0 {
		h += 24
	}
	switch {
	case h >= 6 && h < 8:
		// Cortisol awakening response: 1.3 rising to 1.5.
		return lerp(1.3, 1.5, (h-6)/2)
	case h >= 8 && h < 14:
		// Morning decline: 1.4 down to 0.6.
		return lerp(1.4, 0.6, (h-8)/6)
	case h >= 14 && h < 17:
		// Afternoon nadir: 0.55 drifting up to 0.7.
		return lerp(0.55, 0.7, (h-14)/3)
	case h >= 17 && h < 20:
		// Small evening bump peaking mid-window.
		if h < 18.5 {
			return lerp(0.7, 0.85, (h-17)/1.5)
		}
		return lerp(0.85, 0.7, (h-18.5)/1.5)
	case h >= 20 || h < 2:
		return 0.6
	default: // 2-6h deep night
		return 0.4
	}
}

// MelatoninMultiplier is high in darkness (before 07:00 and after 22:00)
// and suppressed during the day.
func MelatoninMultiplier(hour float64) float64 {
	h := math.Mod(hour, 24)
	if h < 0 {
		h += 24
	}
	if h < 7 || h > 22 {
		return constants.MelatoninNightMultiplier
	}
	return constants.MelatoninDayMultiplier
}

// NamptMultiplier models the nocturnal upswing of NAD+ salvage.
func NamptMultiplier(hour float64) float64 {
	h := math.Mod(hour, 24)
	if h < 0 {
		h += 24
	}
	if h < 6 || h > 20 {
		return constants.NamptNightMultiplier
	}
	return constants.NamptDayMultiplier
}

// AdenosineMultiplier models homeostatic sleep pressure: it rises linearly
// with hours awake and saturates at the ceiling.
func AdenosineMultiplier(hoursSinceWake float64) float64 {
	if hoursSinceWake < 0 {
		hoursSinceWake = 0
	}
	return math.Min(constants.AdenosineCeiling, 1+hoursSinceWake*constants.AdenosinePerHourAwake)
}

func lerp(a, b, t float64) float64 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return a + (b-a)*t
}
