// Package core holds the domain model: money conversion, the transaction
// query engine and the monthly reporting logic. Everything here is pure;
// storage and transport live elsewhere.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a decimal string to signed cents.
//
// It accepts an optional leading sign and both dot (12.34) and comma (12,34)
// decimal separators, rounding half away from zero on the third fractional
// digit. A zero result is rejected: a transaction that moves no money is a
// caller error.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234, nil
//	ParseAmount("-1.005") -> -101, nil (half away from zero)
//	ParseAmount("0")      -> 0, ErrZeroAmount
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if intPart == "0" && fracPart == "" && len(parts) == 2 {
		return 0, ErrInvalidAmount
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// iv*100+fracCents must stay below 1<<63; at iv == (1<<63-1)/100 the
	// fractional cents can still push the sum past it, so reject that too.
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv >= maxSafeInt64 {
		return 0, ErrInvalidAmount
	}

	// Take the first two fractional digits, then round half away from zero
	// on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	cents := iv*100 + fracCents
	if cents == 0 {
		return 0, ErrZeroAmount
	}
	if neg {
		cents = -cents
	}
	return cents, nil
}

// ParsePositiveAmount is ParseAmount restricted to strictly positive values,
// used for budget ceilings.
func ParsePositiveAmount(s string) (int64, error) {
	cents, err := ParseAmount(s)
	if err != nil {
		return 0, err
	}
	if cents < 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// Amount returns the decimal value of m rounded to two fractional digits.
// Use cents for arithmetic; this is strictly a boundary conversion.
func (m Money) Amount() float64 {
	return float64(m.Cents) / 100.0
}

// Abs returns the absolute value in cents.
func (m Money) Abs() int64 {
	if m.Cents < 0 {
		return -m.Cents
	}
	return m.Cents
}

// FormatAmount renders cents as a plain decimal string with exactly two
// fractional digits, e.g. 1234 -> "12.34", -50 -> "-0.50".
func FormatAmount(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
	if neg {
		return "-" + s
	}
	return s
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
