package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tolga/ftlroster/internal/engine"
	"github.com/tolga/ftlroster/internal/model"
	"github.com/tolga/ftlroster/internal/solver"
	"github.com/tolga/ftlroster/internal/solver/refsolver"
)

func utc(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func defaultRequirements() map[string]model.CrewRequirement {
	return map[string]model.CrewRequirement{
		"A320": {AircraftType: "A320", Captains: 1, FirstOfficers: 1, CabinCrew: 1},
	}
}

func newEngine(regs model.RegulationSet) *engine.Engine {
	return &engine.Engine{
		HomeBaseICAO: "ELLX",
		Requirements: defaultRequirements(),
		Regulations:  regs,
		MaxFDPHours:  decimal.NewFromInt(13),
		NewModel:     func() solver.Model { return refsolver.New() },
	}
}

func solveParams() solver.Params {
	return solver.Params{TimeLimitSeconds: 10, Workers: 1}
}

// S1 — Single leg, single crew.
func TestEngine_S1_SingleLegSingleCrew(t *testing.T) {
	legs := []model.FlightLeg{
		{FlightID: "F1", DepartureICAO: "ELLX", ArrivalICAO: "LHR", AircraftType: "A320",
			AircraftRegistration: "LX-A", ScheduledDepartureUTC: utc(2025, 10, 1, 8, 0), ScheduledArrivalUTC: utc(2025, 10, 1, 9, 30),
			FlightTimeHours: decimal.NewFromFloat(1.5)},
	}
	crews := []model.Crew{
		{CrewID: "CPT1", Role: model.RoleCaptain, Qualifications: []string{"A320"}},
		{CrewID: "FO1", Role: model.RoleFirstOfficer, Qualifications: []string{"A320"}},
		{CrewID: "FA1", Role: model.RoleFlightAtt, Qualifications: []string{"A320"}, Purser: true},
	}

	e := newEngine(model.DefaultRegulations())
	roster, err := e.Run(context.Background(), engine.Input{Legs: legs, Crews: crews, SolverParams: solveParams()})
	require.NoError(t, err)
	require.True(t, roster.Status.HasOutput())

	assert.Len(t, roster.Duties, 1)
	assert.Len(t, roster.Assignments, 3)
}

// S2 — Matched return: same-registration turnaround within 4h, duty
// hours 1.5 + (12:30-08:00) = 6.0.
func TestEngine_S2_MatchedReturn(t *testing.T) {
	legs := []model.FlightLeg{
		{FlightID: "F1", DepartureICAO: "ELLX", ArrivalICAO: "LHR", AircraftType: "A320", AircraftRegistration: "LX-A",
			ScheduledDepartureUTC: utc(2025, 10, 1, 8, 0), ScheduledArrivalUTC: utc(2025, 10, 1, 9, 30), FlightTimeHours: decimal.NewFromFloat(1.5)},
		{FlightID: "F2", DepartureICAO: "LHR", ArrivalICAO: "ELLX", AircraftType: "A320", AircraftRegistration: "LX-A",
			ScheduledDepartureUTC: utc(2025, 10, 1, 11, 0), ScheduledArrivalUTC: utc(2025, 10, 1, 12, 30), FlightTimeHours: decimal.NewFromFloat(1.5)},
	}
	crews := []model.Crew{
		{CrewID: "CPT1", Role: model.RoleCaptain, Qualifications: []string{"ALL"}},
		{CrewID: "FO1", Role: model.RoleFirstOfficer, Qualifications: []string{"ALL"}},
		{CrewID: "FA1", Role: model.RoleFlightAtt, Qualifications: []string{"ALL"}, Purser: true},
	}

	e := newEngine(model.DefaultRegulations())
	roster, err := e.Run(context.Background(), engine.Input{Legs: legs, Crews: crews, SolverParams: solveParams()})
	require.NoError(t, err)
	require.Len(t, roster.Duties, 1)
	assert.Equal(t, 2, roster.Duties[0].SectorCount)
	assert.True(t, roster.Duties[0].DutyTimeHours.Equal(decimal.NewFromFloat(6.0)))
}

// S3 — Turnaround too long: return departs >4h after arrival, so two
// separate 1-sector duties are emitted.
func TestEngine_S3_TurnaroundTooLong(t *testing.T) {
	legs := []model.FlightLeg{
		{FlightID: "F1", DepartureICAO: "ELLX", ArrivalICAO: "LHR", AircraftType: "A320", AircraftRegistration: "LX-A",
			ScheduledDepartureUTC: utc(2025, 10, 1, 8, 0), ScheduledArrivalUTC: utc(2025, 10, 1, 9, 30), FlightTimeHours: decimal.NewFromFloat(1.5)},
		{FlightID: "F2", DepartureICAO: "LHR", ArrivalICAO: "ELLX", AircraftType: "A320", AircraftRegistration: "LX-A",
			ScheduledDepartureUTC: utc(2025, 10, 1, 14, 0), ScheduledArrivalUTC: utc(2025, 10, 1, 15, 30), FlightTimeHours: decimal.NewFromFloat(1.5)},
	}
	crews := []model.Crew{
		{CrewID: "CPT1", Role: model.RoleCaptain, Qualifications: []string{"ALL"}},
		{CrewID: "FO1", Role: model.RoleFirstOfficer, Qualifications: []string{"ALL"}},
		{CrewID: "FA1", Role: model.RoleFlightAtt, Qualifications: []string{"ALL"}, Purser: true},
	}

	e := newEngine(model.DefaultRegulations())
	roster, err := e.Run(context.Background(), engine.Input{Legs: legs, Crews: crews, SolverParams: solveParams()})
	require.NoError(t, err)
	require.Len(t, roster.Duties, 2)
	for _, d := range roster.Duties {
		assert.Equal(t, 1, d.SectorCount)
	}
}

// S4 — FDP cap bites: a single qualified captain cannot cover two
// duties summing to 14 duty-hours in one day against a 13h FDP cap.
func TestEngine_S4_FDPCapBitesWithoutSecondCaptain(t *testing.T) {
	legs := []model.FlightLeg{
		{FlightID: "F1", DepartureICAO: "ELLX", ArrivalICAO: "LHR", AircraftType: "A320", AircraftRegistration: "LX-A",
			ScheduledDepartureUTC: utc(2025, 10, 1, 0, 0), ScheduledArrivalUTC: utc(2025, 10, 1, 5, 30), FlightTimeHours: decimal.NewFromFloat(5.5)},
		{FlightID: "F2", DepartureICAO: "ELLX", ArrivalICAO: "CDG", AircraftType: "A320", AircraftRegistration: "LX-B",
			ScheduledDepartureUTC: utc(2025, 10, 1, 12, 0), ScheduledArrivalUTC: utc(2025, 10, 1, 17, 30), FlightTimeHours: decimal.NewFromFloat(5.5)},
	}
	crews := []model.Crew{
		{CrewID: "CPT1", Role: model.RoleCaptain, Qualifications: []string{"ALL"}},
		{CrewID: "FO1", Role: model.RoleFirstOfficer, Qualifications: []string{"ALL"}},
		{CrewID: "FO2", Role: model.RoleFirstOfficer, Qualifications: []string{"ALL"}},
		{CrewID: "FA1", Role: model.RoleFlightAtt, Qualifications: []string{"ALL"}, Purser: true},
		{CrewID: "FA2", Role: model.RoleFlightAtt, Qualifications: []string{"ALL"}, Purser: true},
	}

	e := newEngine(model.DefaultRegulations())
	roster, err := e.Run(context.Background(), engine.Input{Legs: legs, Crews: crews, SolverParams: solveParams()})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInfeasible, roster.Status)
}

// S5 — 28-day rolling: heavy prior-month flying plus a new 6h duty
// must be rejected for the only crew member sharing that history.
func TestEngine_S5_TwentyEightDayRollingRejectsOverCap(t *testing.T) {
	legs := []model.FlightLeg{
		{FlightID: "F1", DepartureICAO: "ELLX", ArrivalICAO: "LHR", AircraftType: "A320", AircraftRegistration: "LX-A",
			ScheduledDepartureUTC: utc(2025, 10, 1, 8, 0), ScheduledArrivalUTC: utc(2025, 10, 1, 14, 0), FlightTimeHours: decimal.NewFromFloat(6)},
	}
	crews := []model.Crew{
		{CrewID: "CPT1", Role: model.RoleCaptain, Qualifications: []string{"ALL"}},
		{CrewID: "FO1", Role: model.RoleFirstOfficer, Qualifications: []string{"ALL"}},
		{CrewID: "FA1", Role: model.RoleFlightAtt, Qualifications: []string{"ALL"}, Purser: true},
	}
	var historical []model.HistoricalFlightRecord
	for i := 1; i <= 27; i++ {
		historical = append(historical, model.HistoricalFlightRecord{
			CrewID:                "CPT1",
			ScheduledDepartureUTC: utc(2025, 9, 4, 8, 0).AddDate(0, 0, i-1),
			FlightTimeHours:       95.0 / 27.0,
			DutyTimeHours:         95.0 / 27.0,
		})
	}

	regs := model.DefaultRegulations()
	regs[model.RegMaxFlightTimeHours28Days] = 100

	e := newEngine(regs)
	roster, err := e.Run(context.Background(), engine.Input{Legs: legs, Crews: crews, Historical: historical, SolverParams: solveParams()})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInfeasible, roster.Status)
}

// S6 — Rest days: a crew with 12 historical work-days in the 13 days
// before the horizon can be worked at most 0 further days in the
// 14-day window, so a new duty in that window is infeasible.
func TestEngine_S6_RestDaysRejectsThirteenthDay(t *testing.T) {
	legs := []model.FlightLeg{
		{FlightID: "F1", DepartureICAO: "ELLX", ArrivalICAO: "LHR", AircraftType: "A320", AircraftRegistration: "LX-A",
			ScheduledDepartureUTC: utc(2025, 10, 1, 8, 0), ScheduledArrivalUTC: utc(2025, 10, 1, 9, 30), FlightTimeHours: decimal.NewFromFloat(1.5)},
	}
	crews := []model.Crew{
		{CrewID: "CPT1", Role: model.RoleCaptain, Qualifications: []string{"ALL"}},
		{CrewID: "FO1", Role: model.RoleFirstOfficer, Qualifications: []string{"ALL"}},
		{CrewID: "FA1", Role: model.RoleFlightAtt, Qualifications: []string{"ALL"}, Purser: true},
	}
	var historical []model.HistoricalFlightRecord
	for i := 1; i <= 12; i++ {
		historical = append(historical, model.HistoricalFlightRecord{
			CrewID:                "CPT1",
			ScheduledDepartureUTC: utc(2025, 9, 18, 8, 0).AddDate(0, 0, i-1),
			FlightTimeHours:       2,
			DutyTimeHours:         3.5,
		})
	}

	e := newEngine(model.DefaultRegulations())
	roster, err := e.Run(context.Background(), engine.Input{Legs: legs, Crews: crews, Historical: historical, SolverParams: solveParams()})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInfeasible, roster.Status)
}
