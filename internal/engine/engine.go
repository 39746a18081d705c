// Package engine orchestrates the four-stage roster formulation
// pipeline end to end: Pairing Builder, Feasibility Filter, Model
// Builder plus constraint families, Solution Extractor. It depends on
// the stage packages and on the abstract internal/solver.Model
// capability, never on a concrete solver back end or on
// internal/repository directly.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/tolga/ftlroster/internal/extractor"
	"github.com/tolga/ftlroster/internal/feasibility"
	"github.com/tolga/ftlroster/internal/model"
	"github.com/tolga/ftlroster/internal/pairing"
	"github.com/tolga/ftlroster/internal/rostermodel"
	"github.com/tolga/ftlroster/internal/solver"
)

// Engine owns the fixed configuration (home base, per-aircraft-type
// crewing requirements, regulation set, FDP cap) and the solver back
// end to drive one or more solve rounds against.
type Engine struct {
	HomeBaseICAO string
	Requirements map[string]model.CrewRequirement
	Regulations  model.RegulationSet
	MaxFDPHours  decimal.Decimal

	// NewModel constructs a fresh solver.Model for each Run call. It is
	// a factory, not a shared instance, since a Model accumulates
	// state across one build-and-solve pass and cannot be reused.
	NewModel func() solver.Model
}

// Input bundles the raw tables one Run call formulates a roster from.
type Input struct {
	Legs         []model.FlightLeg
	Crews        []model.Crew
	TimeOff      []model.TimeOffRequest
	Historical   []model.HistoricalFlightRecord
	Horizon      []time.Time
	SolverParams solver.Params
}

// Run executes the full pipeline and returns the resulting roster.
// Only StatusOptimal and StatusFeasible produce a non-empty
// Assignments slice; Infeasible, Invalid, and Unknown are returned as
// a Roster with that status and no assignments, never as an error.
func (e *Engine) Run(ctx context.Context, in Input) (*model.Roster, error) {
	pb := pairing.NewBuilder(e.HomeBaseICAO, e.Requirements)
	duties := pb.Build(in.Legs, e.MaxFDPHours)
	log.Info().Int("duties", len(duties)).Int("legs", len(in.Legs)).Msg("pairing builder complete")

	if err := rostermodel.ValidateCrewRequirements(duties, e.Requirements); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	result := feasibility.Filter(in.Crews, duties, e.Regulations, in.TimeOff)
	for _, s := range result.EmptyPairs {
		log.Warn().Int("duty_id", s.DutyID).Str("role", string(s.Role)).Msg("no feasible crew for duty/role")
	}

	idx := feasibility.NewIndices(duties, in.Historical)
	horizon := in.Horizon
	if len(horizon) == 0 {
		horizon = deriveHorizon(duties)
	}

	m := e.NewModel()
	b := rostermodel.NewBuilder(m, duties)
	b.BuildAssignVars(result.PairsByRole)
	b.BuildWorkedVars(in.Crews, horizon)

	crewByID := make(map[string]model.Crew, len(in.Crews))
	for _, c := range in.Crews {
		crewByID[c.CrewID] = c
	}

	rostermodel.EmitAll(b, duties, crewByID, e.Regulations, idx, horizon)

	sol, err := m.Solve(ctx, in.SolverParams)
	if err != nil {
		return nil, fmt.Errorf("engine: solve failed: %w", err)
	}
	log.Info().Str("status", string(sol.Status)).Msg("solve complete")

	roster, err := extractor.Extract(sol, b, duties, crewByID)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	return roster, nil
}

// deriveHorizon returns the distinct duty dates, sorted, when the
// caller supplies no explicit planning horizon.
func deriveHorizon(duties []model.Duty) []time.Time {
	seen := make(map[time.Time]bool)
	var horizon []time.Time
	for _, d := range duties {
		date := d.Date()
		if !seen[date] {
			seen[date] = true
			horizon = append(horizon, date)
		}
	}
	for i := 1; i < len(horizon); i++ {
		for j := i; j > 0 && horizon[j].Before(horizon[j-1]); j-- {
			horizon[j], horizon[j-1] = horizon[j-1], horizon[j]
		}
	}
	return horizon
}
