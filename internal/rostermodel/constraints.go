package rostermodel

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tolga/ftlroster/internal/feasibility"
	"github.com/tolga/ftlroster/internal/ftlmath"
	"github.com/tolga/ftlroster/internal/model"
	"github.com/tolga/ftlroster/internal/solver"
	"github.com/tolga/ftlroster/internal/timeutil"
)

// restDayWindowDays is the rolling window spec §4.4.7 checks minimum
// weekly rest over. It is fixed at two weeks regardless of the
// configured min_weekly_rest_days value.
const restDayWindowDays = 14

// EmitFlightCoverage emits §4.4.1: every duty's per-role assignment
// count equals its crewing requirement exactly, plus the purser
// constraint within the cabin-crew family. Grounded on
// original_source/crewrostering/constraints/flight_coverage_constraint.py.
func EmitFlightCoverage(b *Builder, duties []model.Duty, crewByID map[string]model.Crew) {
	for _, d := range duties {
		for _, role := range model.Roles {
			vars := b.AssignVarsForDuty(role, d.DutyID)
			expr := solver.NewLinearExpr(vars, 1)
			b.Model.AddLinearConstraint(expr, solver.Eq, int64(d.RequiredFor(role)))
		}
		emitPurserPresence(b, d, crewByID)
	}
}

// emitPurserPresence requires at least one purser-qualified cabin-crew
// assignment on duties that carry a cabin-crew requirement. Skipped
// when no purser-capable candidate survived the Feasibility Filter for
// this duty, per the design note that an empty disjunction is vacuous
// rather than infeasible.
func emitPurserPresence(b *Builder, d model.Duty, crewByID map[string]model.Crew) {
	if d.CabinCrewRequired == 0 {
		return
	}
	entries := b.AssignEntriesForDuty(model.RoleFlightAtt, d.DutyID)
	var purserVars []solver.BoolVar
	for _, e := range entries {
		if c, ok := crewByID[e.Key.CrewID]; ok && c.Purser {
			purserVars = append(purserVars, e.Var)
		}
	}
	if len(purserVars) == 0 {
		return
	}
	expr := solver.NewLinearExpr(purserVars, 1)
	b.Model.AddLinearConstraint(expr, solver.Ge, 1)
}

// EmitMaxSectorsPerDay emits §4.4.2. The bound is only imposed when a
// crew member's candidate-duty count on a date exceeds max_sectors_day;
// when it is imposed, it is max_sectors_day/2 (integer division),
// preserved verbatim from
// original_source/crewrostering/constraints/max_sectors_constraint.py.
func EmitMaxSectorsPerDay(b *Builder, regs model.RegulationSet) {
	maxSectors := int64(regs[model.RegMaxSectorsDay])
	for _, role := range model.Roles {
		for _, crewID := range b.CrewIDsForRole(role) {
			for _, date := range b.DatesForCrew(role, crewID) {
				vars := b.AssignVarsForCrewDate(role, crewID, date)
				if int64(len(vars)) <= maxSectors {
					continue
				}
				expr := solver.NewLinearExpr(vars, 1)
				b.Model.AddLinearConstraint(expr, solver.Le, maxSectors/2)
			}
		}
	}
}

// EmitAnnualAndTwelveMonthFlightHours emits §4.4.3: the calendar-year
// cap against Crew.CurrentCalendarYearFlightTimeHours, and the rolling
// 12-month cap against Crew.Last11CalendarMonthsFlightTimeHours alone —
// the current month is already bounded by the 28-day flight-hour cap in
// EmitRollingWindows, so folding it in here would double-count it.
func EmitAnnualAndTwelveMonthFlightHours(b *Builder, regs model.RegulationSet, crewByID map[string]model.Crew) {
	yearCapCenti := int64(regs[model.RegMaxFlightTimeHoursYear]) * 100
	twelveCapCenti := int64(regs[model.RegMaxFlightTimeHours12Months]) * 100

	for _, role := range model.Roles {
		for _, crewID := range b.CrewIDsForRole(role) {
			c := crewByID[crewID]
			entries := b.AssignEntriesForCrew(role, crewID)

			var terms []solver.Term
			for _, e := range entries {
				duty, ok := b.DutyByID(e.Key.DutyID)
				if !ok {
					continue
				}
				terms = append(terms, solver.Term{Var: e.Var, Coefficient: ftlmath.ToCentihours(duty.FlightTimeHours)})
			}
			expr := solver.LinearExpr{Terms: terms}

			yearCurrentCenti := ftlmath.FloatToCentihours(c.CurrentCalendarYearFlightTimeHours)
			yearHeadroomCenti := yearCapCenti - yearCurrentCenti
			b.Model.AddLinearConstraint(expr, solver.Le, yearHeadroomCenti)

			twelveCurrentCenti := ftlmath.FloatToCentihours(c.Last11CalendarMonthsFlightTimeHours)
			twelveHeadroomCenti := twelveCapCenti - twelveCurrentCenti
			b.Model.AddLinearConstraint(expr, solver.Le, twelveHeadroomCenti)

			log.Debug().Str("crew_id", crewID).
				Str("year_headroom_hours", ftlmath.FromCentihours(yearHeadroomCenti).String()).
				Str("twelve_month_headroom_hours", ftlmath.FromCentihours(twelveHeadroomCenti).String()).
				Msg("flight-hour headroom for horizon")
		}
	}
}

// rollingWindowInstance describes one of the three emitted instances of
// §4.4.4: a cap, a window length, and whether it sums duty or flight
// hours.
type rollingWindowInstance struct {
	capHours   int
	windowDays int
	useFlight  bool
}

// EmitRollingWindows emits §4.4.4's three instances (7-day duty, 28-day
// duty, 28-day flight), each rooted at every horizon date and combining
// the scheduled-hours sum with idx's historical lookback.
func EmitRollingWindows(b *Builder, regs model.RegulationSet, idx *feasibility.Indices, horizon []time.Time) {
	instances := []rollingWindowInstance{
		{capHours: regs[model.RegMaxDutyTimeHours7Days], windowDays: 7, useFlight: false},
		{capHours: regs[model.RegMaxDutyTimeHours28Days], windowDays: 28, useFlight: false},
		{capHours: regs[model.RegMaxFlightTimeHours28Days], windowDays: 28, useFlight: true},
	}
	for _, role := range model.Roles {
		for _, crewID := range b.CrewIDsForRole(role) {
			entries := b.AssignEntriesForCrew(role, crewID)
			for _, inst := range instances {
				emitRollingWindowInstance(b, idx, crewID, entries, horizon, inst)
			}
		}
	}
}

func emitRollingWindowInstance(b *Builder, idx *feasibility.Indices, crewID string, entries []AssignEntry, horizon []time.Time, inst rollingWindowInstance) {
	capCenti := int64(inst.capHours) * 100

	for _, start := range horizon {
		end := start.AddDate(0, 0, inst.windowDays-1)
		histStart := timeutil.WindowStart(start, inst.windowDays)
		histEnd := timeutil.WindowEnd(start)

		var historical float64
		if inst.useFlight {
			historical = idx.SumFlightHours(crewID, histStart, histEnd)
		} else {
			historical = idx.SumDutyHours(crewID, histStart, histEnd)
		}
		historicalCenti := ftlmath.FloatToCentihours(historical)

		var terms []solver.Term
		for _, e := range entries {
			duty, ok := b.DutyByID(e.Key.DutyID)
			if !ok || !timeutil.InRange(duty.Date(), start, end) {
				continue
			}
			hours := duty.DutyTimeHours
			if inst.useFlight {
				hours = duty.FlightTimeHours
			}
			terms = append(terms, solver.Term{Var: e.Var, Coefficient: ftlmath.ToCentihours(hours)})
		}
		if len(terms) == 0 && historicalCenti == 0 {
			continue
		}
		expr := solver.LinearExpr{Terms: terms}
		b.Model.AddLinearConstraint(expr, solver.Le, capCenti-historicalCenti)
	}
}

// EmitFlightDutyPeriod emits §4.4.5: the cumulative duty-time-hours cap
// per (crew, date), the known simplification of treating the whole
// day's duty time as the flight duty period (DESIGN.md).
func EmitFlightDutyPeriod(b *Builder, regs model.RegulationSet) {
	capCenti := int64(regs[model.RegMaxFlightDutyPeriodHours]) * 100
	for _, role := range model.Roles {
		for _, crewID := range b.CrewIDsForRole(role) {
			for _, date := range b.DatesForCrew(role, crewID) {
				entries := b.AssignEntriesForCrewDate(role, crewID, date)
				var terms []solver.Term
				for _, e := range entries {
					duty, ok := b.DutyByID(e.Key.DutyID)
					if !ok {
						continue
					}
					terms = append(terms, solver.Term{Var: e.Var, Coefficient: ftlmath.ToCentihours(duty.DutyTimeHours)})
				}
				expr := solver.LinearExpr{Terms: terms}
				b.Model.AddLinearConstraint(expr, solver.Le, capCenti)
			}
		}
	}
}

// EmitNoOverlap emits §4.4.6: per-crew optional intervals over every
// assignment variable, one AddNoOverlap group per (role, crew).
func EmitNoOverlap(b *Builder) {
	for _, role := range model.Roles {
		for _, crewID := range b.CrewIDsForRole(role) {
			entries := b.AssignEntriesForCrew(role, crewID)
			if len(entries) < 2 {
				continue
			}
			intervals := make([]solver.IntervalVar, 0, len(entries))
			for _, e := range entries {
				duty, ok := b.DutyByID(e.Key.DutyID)
				if !ok {
					continue
				}
				start := timeutil.MinutesSinceEpoch(duty.ScheduledDepartureUTC)
				end := timeutil.MinutesSinceEpoch(duty.ScheduledArrivalUTC)
				name := fmt.Sprintf("iv_%s_%s_%d", role, crewID, e.Key.DutyID)
				intervals = append(intervals, b.Model.NewOptionalInterval(start, end, e.Var, name))
			}
			b.Model.AddNoOverlap(intervals)
		}
	}
}

// EmitRestDays emits §4.4.7: the worked[c,d]/x[c,d] linking constraints
// (the engine-level correction of the original's gap, DESIGN.md) and
// the rolling 14-day minimum-rest-days window.
func EmitRestDays(b *Builder, regs model.RegulationSet, idx *feasibility.Indices, horizon []time.Time) {
	maxWork := restDayWindowDays - regs[model.RegMinWeeklyRestDays]
	if len(horizon) == 0 {
		return
	}
	scheduleStart := horizon[0]

	for _, role := range model.Roles {
		for _, crewID := range b.CrewIDsForRole(role) {
			for _, date := range horizon {
				emitWorkedLink(b, role, crewID, date)
			}
			for _, start := range horizon {
				emitRestWindow(b, idx, role, crewID, start, scheduleStart, maxWork)
			}
		}
	}
}

// emitWorkedLink ties worked[role,crew,date] to the assignment
// variables scheduled that date: worked <= sum(x) caps it at zero when
// nothing is assigned, and x_i <= worked for each duty forces it to one
// whenever any duty is assigned.
func emitWorkedLink(b *Builder, role model.Role, crewID string, date time.Time) {
	workedVar, ok := b.WorkedVar(role, crewID, date)
	if !ok {
		return
	}
	vars := b.AssignVarsForCrewDate(role, crewID, date)

	upper := solver.NewLinearExpr(vars, 1).Add(workedVar, -1)
	b.Model.AddLinearConstraint(upper, solver.Ge, 0)

	for _, v := range vars {
		lower := solver.LinearExpr{Terms: []solver.Term{
			{Var: v, Coefficient: 1},
			{Var: workedVar, Coefficient: -1},
		}}
		b.Model.AddLinearConstraint(lower, solver.Le, 0)
	}
}

// emitRestWindow binds the rolling 14-day work-day count starting at
// start. Its historical lookback is anchored at scheduleStart, the
// first horizon date, not at start itself: schedule_start_date - 1 is
// the fixed end of the historical range in the original
// (min_weekly_rest_days_constraint.py), so every window rooted later in
// the horizon still looks back from the same point rather than sliding
// its historical boundary forward with start.
func emitRestWindow(b *Builder, idx *feasibility.Indices, role model.Role, crewID string, start, scheduleStart time.Time, maxWork int) {
	end := start.AddDate(0, 0, restDayWindowDays-1)
	histStart := timeutil.WindowStart(scheduleStart, restDayWindowDays)
	histEnd := timeutil.WindowEnd(scheduleStart)
	historicalWorkDays := idx.CountDistinctWorkDays(crewID, histStart, histEnd)

	var workedVars []solver.BoolVar
	for _, date := range timeutil.DatesInRange(start, end) {
		if wv, ok := b.WorkedVar(role, crewID, date); ok {
			workedVars = append(workedVars, wv)
		}
	}
	if len(workedVars) == 0 && historicalWorkDays == 0 {
		return
	}
	expr := solver.NewLinearExpr(workedVars, 1)
	b.Model.AddLinearConstraint(expr, solver.Le, int64(maxWork-historicalWorkDays))
}

// EmitObjective minimises the total number of assignments made, the
// tie-breaking objective named in spec §4.3 when multiple feasible
// rosters exist.
func EmitObjective(b *Builder) {
	vars := b.AllAssignVars()
	b.Model.Minimize(solver.NewLinearExpr(vars, 1))
}

// EmitAll wires every §4.4 constraint family and the objective against
// b, in the order the Model Builder stage assembles them.
func EmitAll(b *Builder, duties []model.Duty, crewByID map[string]model.Crew, regs model.RegulationSet, idx *feasibility.Indices, horizon []time.Time) {
	EmitFlightCoverage(b, duties, crewByID)
	EmitMaxSectorsPerDay(b, regs)
	EmitAnnualAndTwelveMonthFlightHours(b, regs, crewByID)
	EmitRollingWindows(b, regs, idx, horizon)
	EmitFlightDutyPeriod(b, regs)
	EmitNoOverlap(b)
	EmitRestDays(b, regs, idx, horizon)
	EmitObjective(b)
}
