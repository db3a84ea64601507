// Package money provides fixed-point currency arithmetic in minor units.
// All financial figures in the system are carried as int64 minor units
// (paise, cents) and only formatted to 2 fractional digits at the edges.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid money amount")

// Amount is a currency value in minor units (1/100 of the major unit).
type Amount int64

// FromMinor wraps a raw minor-unit value.
func FromMinor(v int64) Amount { return Amount(v) }

// Minor returns the raw minor-unit value.
func (a Amount) Minor() int64 { return int64(a) }

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool { return a < 0 }

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return a + b }

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount { return a - b }

// MulInt returns a * n for an integer quantity.
func (a Amount) MulInt(n int64) Amount { return a * Amount(n) }

// ApplyBps multiplies the amount by a basis-point rate (10000 bps = 100%)
// and rounds the result half-up to the nearest minor unit. The rounding
// happens exactly once, on the product, so repeated per-line application
// cannot drift from the single-shot figure.
func (a Amount) ApplyBps(bps int64) Amount {
	if bps == 0 || a == 0 {
		return 0
	}
	product := int64(a) * bps
	q := product / 10000
	r := product % 10000
	if r < 0 {
		r = -r
	}
	if r*2 >= 10000 {
		if product < 0 {
			q--
		} else {
			q++
		}
	}
	return Amount(q)
}

// SplitHalf divides the amount into two halves whose sum is exactly the
// original. An odd minor unit goes to the first half.
func (a Amount) SplitHalf() (Amount, Amount) {
	second := a / 2
	first := a - second
	return first, second
}

// String formats the amount with 2 fractional digits, e.g. "776.50".
func (a Amount) String() string {
	v := int64(a)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Parse converts a decimal string such as "150.00" or "75.5" into an
// Amount. More than 2 fractional digits is rejected rather than rounded,
// since inputs crossing this boundary are contractually 2-digit fixed
// point.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: more than 2 fractional digits in %q", ErrInvalidAmount, s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	v := w*100 + f
	if neg {
		v = -v
	}
	return Amount(v), nil
}
