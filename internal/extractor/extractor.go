// Package extractor implements the Solution Extractor: it walks a
// solved solver.Solution back through the Model Builder's assignment
// variables and denormalises the true (value==1) pairs into an output
// model.Roster, then folds each assignment's hours into the crew
// utilisation counters for the next planning round.
package extractor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tolga/ftlroster/internal/model"
	"github.com/tolga/ftlroster/internal/rostermodel"
	"github.com/tolga/ftlroster/internal/solver"
)

// ErrInvariantViolation is returned when a variable the solver set true
// has no corresponding duty in the duty table supplied to the Model
// Builder — a bug in wiring between stages, never a legitimate solver
// outcome.
var ErrInvariantViolation = errors.New("extractor: invariant violation")

// statusMap translates solver.Status into the public model.SolveStatus
// the rest of the engine deals in, keeping internal/solver's vocabulary
// out of model.
var statusMap = map[solver.Status]model.SolveStatus{
	solver.StatusOptimal:    model.StatusOptimal,
	solver.StatusFeasible:   model.StatusFeasible,
	solver.StatusInfeasible: model.StatusInfeasible,
	solver.StatusInvalid:    model.StatusInvalid,
	solver.StatusUnknown:    model.StatusUnknown,
}

// Extract builds the output Roster from a solved solution. When the
// status carries no output (Infeasible, Invalid, Unknown) it returns a
// Roster with an empty Assignments slice and the translated status,
// never an error — a roster with no output is a legitimate outcome the
// caller reports, not a bug.
func Extract(sol solver.Solution, b *rostermodel.Builder, duties []model.Duty, crewByID map[string]model.Crew) (*model.Roster, error) {
	status, ok := statusMap[sol.Status]
	if !ok {
		status = model.StatusUnknown
	}

	runID := uuid.New()
	roster := &model.Roster{RunID: runID, Status: status, Duties: duties}
	if !status.HasOutput() {
		return roster, nil
	}

	for _, e := range b.AllAssignEntries() {
		if !sol.Value(e.Var) {
			continue
		}
		duty, ok := b.DutyByID(e.Key.DutyID)
		if !ok {
			return nil, fmt.Errorf("%w: duty %d assigned to %s has no duty-table entry", ErrInvariantViolation, e.Key.DutyID, e.Key.CrewID)
		}
		crew, ok := crewByID[e.Key.CrewID]
		if !ok {
			return nil, fmt.Errorf("%w: crew %s assigned to duty %d has no crew-table entry", ErrInvariantViolation, e.Key.CrewID, e.Key.DutyID)
		}
		record := buildRecord(crew, duty)
		record.RunID = runID
		roster.Assignments = append(roster.Assignments, record)
	}

	return roster, nil
}

func buildRecord(crew model.Crew, duty model.Duty) model.AssignmentRecord {
	flightHours, _ := duty.FlightTimeHours.Float64()
	dutyHours, _ := duty.DutyTimeHours.Float64()

	inboundFlightID := ""
	if duty.InboundFlightID != nil {
		inboundFlightID = *duty.InboundFlightID
	}

	return model.AssignmentRecord{
		CrewID:     crew.CrewID,
		DutyID:     duty.DutyID,
		CrewRole:   crew.Role,
		CrewPurser: crew.Purser,

		DutyScheduledDepartureUTC: duty.ScheduledDepartureUTC,
		DutyScheduledArrivalUTC:   duty.ScheduledArrivalUTC,
		DutyAircraftType:          duty.AircraftType,
		DutyAircraftRegistration:  duty.AircraftRegistration,
		DutyFlightTimeHours:       flightHours,
		DutyTimeHours:             dutyHours,
		DutySectorCount:           duty.SectorCount,

		DutyOutboundFlightID:      duty.OutboundFlightID,
		DutyInboundFlightID:       inboundFlightID,
		DutyOutboundDepartureICAO: duty.OutboundDepartureICAO,
		DutyOutboundArrivalICAO:   duty.OutboundArrivalICAO,
		DutyInboundDepartureICAO:  duty.InboundDepartureICAO,
		DutyInboundArrivalICAO:    duty.InboundArrivalICAO,
	}
}

// ApplyUtilisation folds a solved roster's assignments into each
// assigned crew member's utilisation counters, the update the spec
// describes happening between solve rounds rather than during one.
// Crews not present in the roster are left untouched.
func ApplyUtilisation(roster *model.Roster, crews []model.Crew) []model.Crew {
	deltaFlight := make(map[string]float64)
	deltaDuty := make(map[string]float64)
	for _, a := range roster.Assignments {
		deltaFlight[a.CrewID] += a.DutyFlightTimeHours
		deltaDuty[a.CrewID] += a.DutyTimeHours
	}

	updated := make([]model.Crew, len(crews))
	for i, c := range crews {
		c.CurrentMonthFlightTimeHours += deltaFlight[c.CrewID]
		c.CurrentMonthDutyTimeHours += deltaDuty[c.CrewID]
		c.CurrentCalendarYearFlightTimeHours += deltaFlight[c.CrewID]
		updated[i] = c
	}
	return updated
}
