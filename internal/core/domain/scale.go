package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// scaleNumberRe finds the first decimal-or-integer numeral after
// normalization (commas already converted to dots).
var scaleNumberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseScale maps a free-form business-scale string such as
// "2,5 mln PLN" to a float suitable for descending sort.
//
// Normalization: lower-case, commas become decimal points, interior
// whitespace is removed. The magnitude multiplier is chosen by the
// first matching substring, in priority order: mld/b (billions),
// mln/m (millions), tys/k (thousands). Absent, empty or non-numeric
// input yields exactly 0.0; unparseable input is never an error.
func ParseScale(raw string) float64 {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0.0
	}

	s = strings.ReplaceAll(s, ",", ".")
	s = strings.Join(strings.Fields(s), "")

	multiplier := 1.0
	switch {
	case strings.Contains(s, "mld") || strings.Contains(s, "b"):
		multiplier = 1e9
	case strings.Contains(s, "mln") || strings.Contains(s, "m"):
		multiplier = 1e6
	case strings.Contains(s, "tys") || strings.Contains(s, "k"):
		multiplier = 1e3
	}

	num := scaleNumberRe.FindString(s)
	if num == "" {
		return 0.0
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0.0
	}

	return value * multiplier
}
