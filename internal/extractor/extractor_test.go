package extractor_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tolga/ftlroster/internal/extractor"
	"github.com/tolga/ftlroster/internal/feasibility"
	"github.com/tolga/ftlroster/internal/model"
	"github.com/tolga/ftlroster/internal/rostermodel"
	"github.com/tolga/ftlroster/internal/solver"
	"github.com/tolga/ftlroster/internal/solver/refsolver"
)

func TestExtract_OneAssignmentPerTrueVariable(t *testing.T) {
	duties := []model.Duty{
		{DutyID: 1, AircraftType: "A320", CaptainsRequired: 1,
			ScheduledDepartureUTC: time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC),
			ScheduledArrivalUTC:   time.Date(2025, 10, 1, 9, 30, 0, 0, time.UTC),
			FlightTimeHours:       decimal.NewFromFloat(1.5),
			DutyTimeHours:         decimal.NewFromFloat(3.0)},
	}
	crews := map[string]model.Crew{
		"C1": {CrewID: "C1", Role: model.RoleCaptain},
	}

	m := refsolver.New()
	b := rostermodel.NewBuilder(m, duties)
	b.BuildAssignVars(map[model.Role][]feasibility.Pair{
		model.RoleCaptain: {{CrewID: "C1", DutyID: 1}},
	})
	v := b.AssignVarsForDuty(model.RoleCaptain, 1)[0]

	sol := solver.NewSolution(solver.StatusOptimal, []bool{true})
	_ = v

	roster, err := extractor.Extract(sol, b, duties, crews)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOptimal, roster.Status)
	require.Len(t, roster.Assignments, 1)
	assert.Equal(t, "C1", roster.Assignments[0].CrewID)
	assert.Equal(t, 1, roster.Assignments[0].DutyID)
	assert.Equal(t, model.RoleCaptain, roster.Assignments[0].CrewRole)
}

func TestExtract_InfeasibleYieldsNoAssignmentsNoError(t *testing.T) {
	m := refsolver.New()
	b := rostermodel.NewBuilder(m, nil)
	sol := solver.NewSolution(solver.StatusInfeasible, nil)

	roster, err := extractor.Extract(sol, b, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInfeasible, roster.Status)
	assert.Empty(t, roster.Assignments)
}

func TestExtract_Idempotent(t *testing.T) {
	duties := []model.Duty{
		{DutyID: 1, AircraftType: "A320", CaptainsRequired: 1,
			ScheduledDepartureUTC: time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC),
			ScheduledArrivalUTC:   time.Date(2025, 10, 1, 9, 30, 0, 0, time.UTC),
			FlightTimeHours:       decimal.NewFromFloat(1.5),
			DutyTimeHours:         decimal.NewFromFloat(3.0)},
	}
	crews := map[string]model.Crew{"C1": {CrewID: "C1", Role: model.RoleCaptain}}

	m := refsolver.New()
	b := rostermodel.NewBuilder(m, duties)
	b.BuildAssignVars(map[model.Role][]feasibility.Pair{model.RoleCaptain: {{CrewID: "C1", DutyID: 1}}})
	sol := solver.NewSolution(solver.StatusOptimal, []bool{true})

	r1, err1 := extractor.Extract(sol, b, duties, crews)
	r2, err2 := extractor.Extract(sol, b, duties, crews)
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.Len(t, r1.Assignments, 1)
	require.Len(t, r2.Assignments, 1)
	assert.Equal(t, r1.Assignments[0].CrewID, r2.Assignments[0].CrewID)
	assert.Equal(t, r1.Assignments[0].DutyID, r2.Assignments[0].DutyID)
	assert.NotEqual(t, uuid.Nil, r1.RunID)
	assert.NotEqual(t, r1.RunID, r2.RunID)
}

func TestApplyUtilisation_AddsAssignedHours(t *testing.T) {
	roster := &model.Roster{
		Status: model.StatusOptimal,
		Assignments: []model.AssignmentRecord{
			{CrewID: "C1", DutyFlightTimeHours: 2, DutyTimeHours: 3.5},
		},
	}
	crews := []model.Crew{{CrewID: "C1", CurrentMonthFlightTimeHours: 10, CurrentCalendarYearFlightTimeHours: 100}}

	updated := extractor.ApplyUtilisation(roster, crews)
	require.Len(t, updated, 1)
	assert.Equal(t, 12.0, updated[0].CurrentMonthFlightTimeHours)
	assert.Equal(t, 102.0, updated[0].CurrentCalendarYearFlightTimeHours)
}
