package gradient

// accentFor maps a WMO code to the accent its category blends toward.
func accentFor(code int) (string, bool) {
	switch {
	case code == 0 || code == 1:
		return "#fff1c1", true // clear: warm brighten
	case code == 2:
		return "#d9e2ec", true // partly cloudy
	case code == 3 || code == 45 || code == 48:
		return "#8a929c", true // overcast, fog
	case code >= 51 && code <= 67, code >= 80 && code <= 82:
		return "#4f5d75", true // drizzle, rain, showers
	case code >= 71 && code <= 77, code == 85 || code == 86:
		return "#e8eef5", true // snow
	case code >= 95 && code <= 99:
		return "#2d2a40", true // thunderstorm
	default:
		return "", false
	}
}
