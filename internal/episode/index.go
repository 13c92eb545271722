package episode

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalText is the number syntax ApplyOffset accepts: optional sign,
// decimal digits with an optional fraction and exponent, or inf/infinity/nan.
// ParseFloat alone would also take underscores and hex floats.
var decimalText = regexp.MustCompile(`^[+-]?(?:(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?|(?i:inf|infinity|nan))$`)

// NormalizeIndex strips leading zeros from captured episode text.
// All-zero text ("0", "00") normalizes to "0".
func NormalizeIndex(text string) string {
	trimmed := strings.TrimLeft(text, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// ApplyOffset shifts a normalized index by offset.
//
// A zero offset returns index unchanged, so fractional or non-numeric text
// survives verbatim. Otherwise index is parsed as a float; when it does not
// parse as a plain decimal the offset itself is returned as text.
func ApplyOffset(index string, offset int) string {
	if offset == 0 {
		return index
	}
	if !decimalText.MatchString(index) {
		return strconv.Itoa(offset)
	}
	v, err := strconv.ParseFloat(index, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return strconv.Itoa(offset)
	}
	return formatIndex(v + float64(offset))
}

// formatIndex renders v in shortest decimal form: 7, 5.5, -1.
func formatIndex(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
