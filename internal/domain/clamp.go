package domain

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Clamp pins v into [min, max]. Non-finite input yields min.
func Clamp(v, min, max float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Clamp01 pins v into [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// CoerceNumber converts loosely typed JSON values into a finite float64.
// Numeric strings are accepted; NaN and infinities are not.
func CoerceNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var hexColorPattern = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

// NormalizeHexColor canonicalizes a 6-hex-digit color to "#RRGGBB"
// uppercase. Anything else comes back as fallback.
func NormalizeHexColor(s, fallback string) string {
	s = strings.TrimSpace(s)
	if !hexColorPattern.MatchString(s) {
		return fallback
	}
	return "#" + strings.ToUpper(strings.TrimPrefix(s, "#"))
}
