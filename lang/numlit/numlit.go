// Package numlit converts a numeric literal's source text to a typed integer
// or float value, detecting over/underflow: a literal whose magnitude
// exceeds the u64/f64 range is reported as an error rather than silently
// wrapping.
package numlit

import (
	"errors"
	"strconv"
	"strings"
)

// ErrOverflow is returned when the literal's magnitude exceeds the target
// representation (u64 for integers, f64 for floats).
var ErrOverflow = errors.New("numlit: literal value out of range")

// ErrSyntax is returned for a literal whose digits don't parse in the
// radix its prefix selects (e.g. an 8 in a 0o literal).
var ErrSyntax = errors.New("numlit: malformed numeric literal")

// Result is the outcome of parsing one numeric literal.
type Result struct {
	IsFloat bool
	Int     uint64
	Float   float64
}

// Parse converts lit (the raw source text of a NUMBER token, as produced by
// the lexer's number-scanning state) to a Result. lit may carry a 0x/0o/0b
// radix prefix (integers only) and a single decimal point (forcing a float
// result). Returns ErrOverflow, unwrapped via errors.Is, if the magnitude is
// out of range; the caller (the lexer) is responsible for turning that into
// an error token and a diagnostic.
func Parse(lit string) (Result, error) {
	base, digits, isFloat := splitRadix(lit)
	// digit-group separators are scanned by the lexer but carry no value
	digits = strings.ReplaceAll(digits, "_", "")
	if isFloat {
		f, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return Result{}, ErrOverflow
			}
			return Result{}, ErrSyntax
		}
		return Result{IsFloat: true, Float: f}, nil
	}

	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return Result{}, ErrOverflow
		}
		return Result{}, ErrSyntax
	}
	return Result{Int: v}, nil
}

// splitRadix strips a 0x/0o/0b prefix (if any) and reports the base to parse
// with, the remaining digit text, and whether a decimal point forces a float
// parse. A decimal point or exponent marker makes the literal a base-10
// float unless it has a 0x prefix (where e/E are hex digits); a 0x literal
// containing a decimal point takes the integer path and fails as malformed.
func splitRadix(lit string) (base int, digits string, isFloat bool) {
	if strings.ContainsAny(lit, ".eE") && !strings.HasPrefix(lit, "0x") && !strings.HasPrefix(lit, "0X") {
		return 10, lit, true
	}

	if len(lit) > 2 && lit[0] == '0' {
		switch lit[1] {
		case 'x', 'X':
			return 16, lit[2:], false
		case 'o', 'O':
			return 8, lit[2:], false
		case 'b', 'B':
			return 2, lit[2:], false
		}
	}
	return 10, lit, false
}
