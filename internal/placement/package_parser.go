package placement

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingFloatPattern = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?`)
	nonNumericPattern   = regexp.MustCompile(`[^0-9.]`)
)

// ParsePackage extracts a figure from free-text compensation such as
// "8.5 LPA", "6-8 LPA" or "40K Monthly". Ranges resolve to the midpoint of
// their first two bounds. The parse is best effort: the boolean is false
// when no figure can be read.
func ParsePackage(raw string) (float64, bool) {
	if strings.Contains(raw, "-") {
		parts := strings.Split(raw, "-")
		low, okLow := leadingFloat(parts[0])
		high, okHigh := leadingFloat(parts[1])
		if !okLow || !okHigh {
			return 0, false
		}
		return (low + high) / 2, true
	}

	return leadingFloat(nonNumericPattern.ReplaceAllString(raw, ""))
}

// leadingFloat reads the longest numeric prefix of s, ignoring leading whitespace.
func leadingFloat(s string) (float64, bool) {
	match := leadingFloatPattern.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.TrimSuffix(match, "."), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}
