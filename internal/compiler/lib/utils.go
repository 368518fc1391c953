package lib

import (
	"math"
	"strconv"
	"strings"
)

// CanonicalName is the form every name is stored and compared in.
// Pascal identifiers are case-insensitive.
func CanonicalName(name string) string {
	return strings.ToUpper(name)
}

// FormatReal renders a float so it always reads as a real (5 -> "5.0").
func FormatReal(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !math.IsInf(f, 0) && !math.IsNaN(f) && !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
