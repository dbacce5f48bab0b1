package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMonetary converts a report cell into a decimal amount. It tolerates
// thousands separators, currency symbols, and accounting-style parentheses
// for negatives. A dash, empty string, or otherwise unparseable value
// normalizes to zero — thin data is not an error at this layer.
func ParseMonetary(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" || s == "--" {
		return decimal.Zero
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ',' || r == '\'' || r == ' ' || r == '$':
			// separators and currency markers are dropped
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		d = d.Neg()
	}
	return d
}

// ParseMonetaryFloat is ParseMonetary with a float64 result, for callers that
// feed the statistics layer directly.
func ParseMonetaryFloat(raw string) float64 {
	f, _ := ParseMonetary(raw).Float64()
	return f
}

// SumDecimals adds a slice of decimals without intermediate float rounding.
func SumDecimals(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
