package ftlmath_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tolga/ftlroster/internal/ftlmath"
)

func TestToCentihours_TruncatesRatherThanRounds(t *testing.T) {
	// 1.519h * 100 = 151.9 -> truncated to 151, not rounded to 152.
	got := ftlmath.ToCentihours(decimal.NewFromFloat(1.519))
	assert.Equal(t, int64(151), got)
}

func TestFloatToCentihours_MatchesDecimalPath(t *testing.T) {
	assert.Equal(t, ftlmath.ToCentihours(decimal.NewFromFloat(6.5)), ftlmath.FloatToCentihours(6.5))
}

func TestFromCentihours_RoundTripsExactValues(t *testing.T) {
	centi := ftlmath.ToCentihours(decimal.NewFromFloat(13.0))
	assert.True(t, ftlmath.FromCentihours(centi).Equal(decimal.NewFromFloat(13.0)))
}

func TestRoundHours_RoundsToTwoDecimals(t *testing.T) {
	got := ftlmath.RoundHours(decimal.NewFromFloat(1.5549))
	assert.True(t, got.Equal(decimal.NewFromFloat(1.55)))
}
