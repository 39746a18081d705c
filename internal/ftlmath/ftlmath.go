// Package ftlmath provides the exact fractional-hour arithmetic the
// constraint model requires: rounding to 0.01h with decimal.Decimal,
// then truncating into integer centihours so no floating point ever
// reaches a constraint coefficient.
package ftlmath

import "github.com/shopspring/decimal"

const centihourScale = 100

// RoundHours rounds an hour quantity to 0.01h using banker's-free
// half-up rounding, matching the precision the duty table is specified
// to carry.
func RoundHours(hours decimal.Decimal) decimal.Decimal {
	return hours.Round(2)
}

// ToCentihours truncates the scaled-by-100 integer representation of an
// hour quantity. Truncation, not rounding, per the scaling rule: every
// floating hour value entering the model is rounded by truncation of
// the scaled integer.
func ToCentihours(hours decimal.Decimal) int64 {
	scaled := hours.Mul(decimal.NewFromInt(centihourScale))
	return scaled.IntPart()
}

// FloatToCentihours truncates a float64 hour quantity (the shape crew
// utilisation counters and historical records carry) into centihours.
func FloatToCentihours(hours float64) int64 {
	return ToCentihours(decimal.NewFromFloat(hours))
}

// FromCentihours converts a centihour integer back to a decimal hour
// value, for reporting.
func FromCentihours(centi int64) decimal.Decimal {
	return decimal.NewFromInt(centi).Div(decimal.NewFromInt(centihourScale))
}
