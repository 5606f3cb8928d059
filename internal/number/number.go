// Package number converts numeric literals to values and back.
package number

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	kdlerrors "github.com/KimNorgaard/go-kdl/errors"
)

// Number is a parsed numeric literal. Big is set instead of Int when an
// integer does not fit in 64 bits.
type Number struct {
	IsFloat bool
	Int     int64
	Big     *big.Int
	Float   float64
}

func (n Number) String() string {
	switch {
	case n.IsFloat:
		return strconv.FormatFloat(n.Float, 'g', -1, 64)
	case n.Big != nil:
		return n.Big.String()
	}
	return strconv.FormatInt(n.Int, 10)
}

// Parse converts a numeric literal. The radix is taken from an optional
// 0x, 0o or 0b prefix; anything else is decimal.
func Parse(lexeme string) (Number, error) {
	fail := func(reason string) (Number, error) {
		return Number{}, &kdlerrors.NumberError{Lexeme: lexeme, Reason: reason}
	}
	s := lexeme
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if s == "" {
		return fail("no digits")
	}
	if len(s) > 1 && s[0] == '0' {
		switch s[1] {
		case 'x':
			return parseRadix(lexeme, s[2:], 16, neg)
		case 'o':
			return parseRadix(lexeme, s[2:], 8, neg)
		case 'b':
			return parseRadix(lexeme, s[2:], 2, neg)
		}
	}

	isFloat, reason := scanDecimal(s)
	if reason != "" {
		return fail(reason)
	}
	clean := strings.ReplaceAll(s, "_", "")
	if neg {
		clean = "-" + clean
	}
	if isFloat {
		f, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return fail("out of range for a 64-bit float")
		}
		return Number{IsFloat: true, Float: f}, nil
	}
	i, err := strconv.ParseInt(clean, 10, 64)
	if err == nil {
		return Number{Int: i}, nil
	}
	if !errors.Is(err, strconv.ErrRange) {
		return fail(err.Error())
	}
	b, ok := new(big.Int).SetString(clean, 10)
	if !ok {
		return fail("invalid digits")
	}
	return Number{Big: b}, nil
}

// scanDecimal validates digits[.digits][(e|E)[sign]digits] with '_'
// separators allowed after the first digit of each part.
func scanDecimal(s string) (isFloat bool, reason string) {
	i := 0
	digits := func(part string) string {
		if i >= len(s) || !isDigit(s[i]) {
			return "expected digit in " + part
		}
		for i < len(s) && (isDigit(s[i]) || s[i] == '_') {
			i++
		}
		return ""
	}
	if r := digits("integer part"); r != "" {
		return false, r
	}
	if i < len(s) && s[i] == '.' {
		isFloat = true
		i++
		if r := digits("fraction"); r != "" {
			return false, r
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		isFloat = true
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if r := digits("exponent"); r != "" {
			return false, r
		}
	}
	if i != len(s) {
		return false, "unexpected character " + strconv.QuoteRune(rune(s[i]))
	}
	return isFloat, ""
}

func parseRadix(lexeme, digits string, base int, neg bool) (Number, error) {
	fail := func(reason string) (Number, error) {
		return Number{}, &kdlerrors.NumberError{Lexeme: lexeme, Reason: reason}
	}
	if digits == "" || digits[0] == '_' {
		return fail("expected digit after prefix")
	}
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c == '_' {
			continue
		}
		if digitValue(c) >= base {
			return fail("invalid digit " + strconv.QuoteRune(rune(c)) + " for base " + strconv.Itoa(base))
		}
	}
	b, ok := new(big.Int).SetString(strings.ReplaceAll(digits, "_", ""), base)
	if !ok {
		return fail("invalid digits")
	}
	if neg {
		b.Neg(b)
	}
	if b.IsInt64() {
		return Number{Int: b.Int64()}, nil
	}
	return Number{Big: b}, nil
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func digitValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	}
	return math.MaxInt
}
