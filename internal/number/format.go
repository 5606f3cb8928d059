package number

import (
	"math"
	"strconv"
	"strings"
)

// FloatFormat controls the textual shape of floats.
type FloatFormat struct {
	AlwaysWriteDecimalPoint           bool
	AlwaysWriteDecimalPointOrExponent bool
	CapitalE                          bool
	ExponentPlus                      bool
	Plus                              bool
	// MinExponent is the smallest decimal exponent magnitude written in
	// scientific notation. Zero disables scientific notation.
	MinExponent int
}

// FormatFloat writes the shortest decimal that parses back to f, shaped
// by m.
func FormatFloat(f float64, m FloatFormat) string {
	switch {
	case math.IsNaN(f):
		return "#nan"
	case math.IsInf(f, 1):
		return "#inf"
	case math.IsInf(f, -1):
		return "#-inf"
	}

	var b strings.Builder
	if math.Signbit(f) {
		b.WriteByte('-')
	} else if m.Plus {
		b.WriteByte('+')
	}

	digits, exp := decompose(math.Abs(f))
	if m.MinExponent > 0 && abs(exp) >= m.MinExponent {
		b.WriteByte(digits[0])
		if len(digits) > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		} else if m.AlwaysWriteDecimalPoint {
			b.WriteString(".0")
		}
		if m.CapitalE {
			b.WriteByte('E')
		} else {
			b.WriteByte('e')
		}
		if exp < 0 {
			b.WriteByte('-')
		} else if m.ExponentPlus {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(abs(exp)))
		return b.String()
	}

	var intPart, frac string
	switch {
	case exp < 0:
		intPart = "0"
		frac = strings.Repeat("0", -exp-1) + digits
	case len(digits) <= exp+1:
		intPart = digits + strings.Repeat("0", exp+1-len(digits))
	default:
		intPart = digits[:exp+1]
		frac = digits[exp+1:]
	}
	b.WriteString(intPart)
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	} else if m.AlwaysWriteDecimalPoint || m.AlwaysWriteDecimalPointOrExponent {
		b.WriteString(".0")
	}
	return b.String()
}

// decompose splits a non-negative finite f into its shortest significant
// digits and the decimal exponent of the first digit.
func decompose(f float64) (string, int) {
	if f == 0 {
		return "0", 0
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, expStr, _ := strings.Cut(s, "e")
	exp, _ := strconv.Atoi(expStr)
	return strings.Replace(mant, ".", "", 1), exp
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
