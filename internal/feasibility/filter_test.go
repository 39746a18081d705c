package feasibility_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tolga/ftlroster/internal/feasibility"
	"github.com/tolga/ftlroster/internal/model"
)

func TestFilter_QualificationExcludesWrongType(t *testing.T) {
	crews := []model.Crew{
		{CrewID: "C1", Role: model.RoleCaptain, Qualifications: []string{"A320"}},
		{CrewID: "C2", Role: model.RoleCaptain, Qualifications: []string{"B738"}},
	}
	duties := []model.Duty{
		{DutyID: 1, AircraftType: "A320", CaptainsRequired: 1, FlightTimeHours: decimal.NewFromInt(2), DutyTimeHours: decimal.NewFromFloat(3.5), ScheduledDepartureUTC: time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)},
	}

	result := feasibility.Filter(crews, duties, model.DefaultRegulations(), nil)

	pairs := result.PairsByRole[model.RoleCaptain]
	require.Len(t, pairs, 1)
	assert.Equal(t, "C1", pairs[0].CrewID)
}

func TestFilter_TimeOffExcludesPair(t *testing.T) {
	crews := []model.Crew{
		{CrewID: "C1", Role: model.RoleCaptain, Qualifications: []string{"ALL"}},
	}
	dep := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	duties := []model.Duty{
		{DutyID: 1, AircraftType: "A320", CaptainsRequired: 1, FlightTimeHours: decimal.NewFromInt(2), DutyTimeHours: decimal.NewFromFloat(3.5), ScheduledDepartureUTC: dep},
	}
	timeOff := []model.TimeOffRequest{
		{CrewID: "C1", StartDate: time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC)},
	}

	result := feasibility.Filter(crews, duties, model.DefaultRegulations(), timeOff)

	assert.Empty(t, result.PairsByRole[model.RoleCaptain])
	require.Len(t, result.EmptyPairs, 1)
	assert.Equal(t, 1, result.EmptyPairs[0].DutyID)
}

func TestFilter_HeadroomExcludesOverCap(t *testing.T) {
	crews := []model.Crew{
		// 94h is below the 95h (95% of 100h) 28-day prefilter, so only the
		// full-cap headroom check (94 + 7 > 100) can exclude this pair.
		{CrewID: "C1", Role: model.RoleCaptain, Qualifications: []string{"ALL"}, CurrentMonthFlightTimeHours: 94},
	}
	duties := []model.Duty{
		{DutyID: 1, AircraftType: "A320", CaptainsRequired: 1, FlightTimeHours: decimal.NewFromInt(7), DutyTimeHours: decimal.NewFromFloat(8.5), ScheduledDepartureUTC: time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)},
	}

	result := feasibility.Filter(crews, duties, model.DefaultRegulations(), nil)

	assert.Empty(t, result.PairsByRole[model.RoleCaptain])
}
