package feasibility

import (
	"github.com/tolga/ftlroster/internal/model"
)

// Pair is a surviving (crew, duty) assignment candidate.
type Pair struct {
	CrewID string
	DutyID int
}

// Shortfall records a duty/role combination with no feasible crew at
// all after filtering — a non-fatal feasibility error (spec §7) that
// may surface later as solver infeasibility.
type Shortfall struct {
	DutyID int
	Role   model.Role
}

// Result is the output of the Feasibility Filter: one pair list per
// role, plus any empty-feasible-list shortfalls observed.
type Result struct {
	PairsByRole map[model.Role][]Pair
	EmptyPairs  []Shortfall
}

const utilisationPrefilterRatio = 0.95

// Filter applies the four-step per-role filter described in the
// Feasibility Filter design: qualification, 95%-prefilter on
// accumulated utilisation, full-cap per-pair headroom, and time-off
// conflict.
func Filter(crews []model.Crew, duties []model.Duty, regs model.RegulationSet, timeOff []model.TimeOffRequest) Result {
	timeOffByCrew := make(map[string][]model.TimeOffRequest)
	for _, t := range timeOff {
		timeOffByCrew[t.CrewID] = append(timeOffByCrew[t.CrewID], t)
	}

	result := Result{PairsByRole: make(map[model.Role][]Pair)}

	yearCap := float64(regs[model.RegMaxFlightTimeHoursYear])
	twelveMonthCap := float64(regs[model.RegMaxFlightTimeHours12Months])
	flight28Cap := float64(regs[model.RegMaxFlightTimeHours28Days])
	duty28Cap := float64(regs[model.RegMaxDutyTimeHours28Days])

	for _, role := range model.Roles {
		var qualified []model.Crew
		for _, c := range crews {
			if c.Role != role {
				continue
			}
			if passesUtilisationPrefilter(c, yearCap, twelveMonthCap, flight28Cap, duty28Cap) {
				qualified = append(qualified, c)
			}
		}

		var pairs []Pair
		for _, d := range duties {
			required := d.RequiredFor(role)
			before := len(pairs)
			for _, c := range qualified {
				if !c.IsQualifiedFor(d.AircraftType) {
					continue
				}
				if !passesHeadroom(c, d, yearCap, twelveMonthCap, flight28Cap, duty28Cap) {
					continue
				}
				if conflictsWithTimeOff(timeOffByCrew[c.CrewID], d) {
					continue
				}
				pairs = append(pairs, Pair{CrewID: c.CrewID, DutyID: d.DutyID})
			}
			if required > 0 && len(pairs) == before {
				result.EmptyPairs = append(result.EmptyPairs, Shortfall{DutyID: d.DutyID, Role: role})
			}
		}
		result.PairsByRole[role] = pairs
	}

	return result
}

func passesUtilisationPrefilter(c model.Crew, yearCap, twelveMonthCap, flight28Cap, duty28Cap float64) bool {
	if c.CurrentCalendarYearFlightTimeHours >= yearCap*utilisationPrefilterRatio {
		return false
	}
	if c.Last11CalendarMonthsFlightTimeHours >= twelveMonthCap*utilisationPrefilterRatio {
		return false
	}
	if c.CurrentMonthFlightTimeHours >= flight28Cap*utilisationPrefilterRatio {
		return false
	}
	if c.CurrentMonthDutyTimeHours >= duty28Cap*utilisationPrefilterRatio {
		return false
	}
	return true
}

func passesHeadroom(c model.Crew, d model.Duty, yearCap, twelveMonthCap, flight28Cap, duty28Cap float64) bool {
	flightHours, _ := d.FlightTimeHours.Float64()
	dutyHours, _ := d.DutyTimeHours.Float64()

	if c.CurrentCalendarYearFlightTimeHours+flightHours > yearCap {
		return false
	}
	if c.Last11CalendarMonthsFlightTimeHours+flightHours > twelveMonthCap {
		return false
	}
	if c.CurrentMonthFlightTimeHours+flightHours > flight28Cap {
		return false
	}
	if c.CurrentMonthDutyTimeHours+dutyHours > duty28Cap {
		return false
	}
	return true
}

func conflictsWithTimeOff(requests []model.TimeOffRequest, d model.Duty) bool {
	for _, r := range requests {
		if r.Conflicts(d.ScheduledDepartureUTC) {
			return true
		}
	}
	return false
}
