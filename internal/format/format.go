// Package format renders KPI values the way the dashboard tiles show them.
package format

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind selects how a scalar is displayed.
type Kind string

const (
	KindCurrency Kind = "currency"
	KindPercent  Kind = "percent"
	KindNumber   Kind = "number"
)

// NotAvailable stands in for NaN and infinite values.
const NotAvailable = "n/a"

// Value formats v according to kind.
func Value(kind Kind, v float64) string {
	switch kind {
	case KindCurrency:
		return Currency(v)
	case KindPercent:
		return Percent(v)
	default:
		return Number(v)
	}
}

// Currency renders dollars with thousands separators and two decimals: $1,234.50.
func Currency(v float64) string {
	if !finite(v) {
		return NotAvailable
	}
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsNegative() {
		return "-$" + group(d.Neg().StringFixed(2))
	}
	return "$" + group(d.StringFixed(2))
}

// Percent renders a percentage with two decimals: 11.76%.
func Percent(v float64) string {
	if !finite(v) {
		return NotAvailable
	}
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

// Number renders v with thousands separators, dropping a zero fraction.
func Number(v float64) string {
	if !finite(v) {
		return NotAvailable
	}
	d := decimal.NewFromFloat(v).Round(2)
	neg := d.IsNegative()
	if neg {
		d = d.Neg()
	}
	s := group(d.String())
	if neg {
		return "-" + s
	}
	return s
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// group inserts commas into the integer part of an unsigned decimal string.
func group(s string) string {
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return intPart + frac
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + frac
}
