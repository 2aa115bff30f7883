package domain

import "strings"

// precipitationTokens mark metric keys whose values cannot be negative.
var precipitationTokens = []string{"rain", "precip"}

// IsPrecipitation reports whether a metric key names a precipitation-like
// quantity (case-insensitive substring match).
func IsPrecipitation(key string) bool {
	lower := strings.ToLower(key)
	for _, tok := range precipitationTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// ClampMetric floors the lower interval bound of precipitation metrics at
// zero. The upper bound and every other field are left untouched.
func ClampMetric(key string, m ForecastMetric) ForecastMetric {
	if !IsPrecipitation(key) || m.Interval90[0] >= 0 {
		return m
	}
	m.Interval90[0] = 0
	return m
}
