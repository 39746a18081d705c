// Package pairing implements the Pairing Builder: it packs atomic
// flight legs into one- or two-leg duties rooted at the home base,
// deterministically and exactly once per leg.
package pairing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tolga/ftlroster/internal/ftlmath"
	"github.com/tolga/ftlroster/internal/model"
)

// turnaroundWindow is the maximum gap between an outbound leg's arrival
// and a candidate return leg's departure.
const turnaroundWindow = 4 * time.Hour

// dutyBuffer is the fixed ground/briefing buffer added to block time to
// derive duty_time_hours.
var dutyBuffer = decimal.NewFromFloat(1.5)

// Builder packs flight legs into duties.
type Builder struct {
	HomeBaseICAO string
	Requirements map[string]model.CrewRequirement
}

// NewBuilder constructs a Builder for the given home base and
// per-aircraft-type crewing requirements.
func NewBuilder(homeBaseICAO string, requirements map[string]model.CrewRequirement) *Builder {
	return &Builder{HomeBaseICAO: homeBaseICAO, Requirements: requirements}
}

// Build runs the two deterministic passes and emits the duty table.
// Every input leg appears in exactly one duty.
func (b *Builder) Build(legs []model.FlightLeg, maxFDPHours decimal.Decimal) []model.Duty {
	sorted := append([]model.FlightLeg(nil), legs...)
	sortLegs(sorted)

	byFlightID := make(map[string]model.FlightLeg, len(sorted))
	byDeparture := make(map[string][]model.FlightLeg, len(sorted))
	for _, l := range sorted {
		byFlightID[l.FlightID] = l
		byDeparture[l.DepartureICAO] = append(byDeparture[l.DepartureICAO], l)
	}
	for k := range byDeparture {
		sortLegs(byDeparture[k])
	}

	paired := make(map[string]bool, len(sorted))
	var pairs [][2]model.FlightLeg

	pairs = append(pairs, b.matchPass(sorted, byDeparture, paired, true, maxFDPHours)...)
	pairs = append(pairs, b.matchPass(sorted, byDeparture, paired, false, maxFDPHours)...)

	var duties []model.Duty
	for _, p := range pairs {
		duties = append(duties, b.emitPairDuty(p[0], p[1]))
	}
	for _, l := range sorted {
		if !paired[l.FlightID] {
			duties = append(duties, b.emitSoloDuty(l))
		}
	}

	sort.Slice(duties, func(i, j int) bool {
		if !duties[i].ScheduledDepartureUTC.Equal(duties[j].ScheduledDepartureUTC) {
			return duties[i].ScheduledDepartureUTC.Before(duties[j].ScheduledDepartureUTC)
		}
		return duties[i].OutboundFlightID < duties[j].OutboundFlightID
	})
	for i := range duties {
		duties[i].DutyID = i
	}
	return duties
}

// matchPass runs one pairing pass over the still-unpaired legs. When
// sameAircraft is true it additionally requires the candidate return
// leg to share aircraft_type and aircraft_registration with the
// outbound leg.
func (b *Builder) matchPass(
	sorted []model.FlightLeg,
	byDeparture map[string][]model.FlightLeg,
	paired map[string]bool,
	sameAircraft bool,
	maxFDPHours decimal.Decimal,
) [][2]model.FlightLeg {
	var pairs [][2]model.FlightLeg

	for _, outbound := range sorted {
		if paired[outbound.FlightID] {
			continue
		}
		if outbound.DepartureICAO != b.HomeBaseICAO {
			continue
		}

		var best *model.FlightLeg
		for _, candidate := range byDeparture[outbound.ArrivalICAO] {
			candidate := candidate
			if paired[candidate.FlightID] || candidate.FlightID == outbound.FlightID {
				continue
			}
			if candidate.ArrivalICAO != b.HomeBaseICAO {
				continue
			}
			if !candidate.ScheduledDepartureUTC.After(outbound.ScheduledArrivalUTC) {
				continue
			}
			if candidate.ScheduledDepartureUTC.Sub(outbound.ScheduledArrivalUTC) > turnaroundWindow {
				continue
			}
			if sameAircraft && (candidate.AircraftType != outbound.AircraftType || candidate.AircraftRegistration != outbound.AircraftRegistration) {
				continue
			}
			if best == nil ||
				candidate.ScheduledDepartureUTC.Before(best.ScheduledDepartureUTC) ||
				(candidate.ScheduledDepartureUTC.Equal(best.ScheduledDepartureUTC) && candidate.FlightID < best.FlightID) {
				c := candidate
				best = &c
			}
		}

		if best == nil {
			continue
		}

		combinedFlightHours := outbound.FlightTimeHours.Add(best.FlightTimeHours)
		combinedDutyHours := dutyBuffer.Add(combinedFlightHours)
		if combinedDutyHours.LessThan(maxFDPHours) {
			paired[outbound.FlightID] = true
			paired[best.FlightID] = true
			pairs = append(pairs, [2]model.FlightLeg{outbound, *best})
		}
	}

	return pairs
}

func (b *Builder) emitPairDuty(outbound, inbound model.FlightLeg) model.Duty {
	flightHours := outbound.FlightTimeHours.Add(inbound.FlightTimeHours)
	elapsedHours := decimal.NewFromFloat(inbound.ScheduledArrivalUTC.Sub(outbound.ScheduledDepartureUTC).Hours())
	dutyHours := ftlmath.RoundHours(dutyBuffer.Add(elapsedHours))

	duty := model.Duty{
		OutboundFlightID:       outbound.FlightID,
		InboundFlightID:        strPtr(inbound.FlightID),
		AircraftType:           outbound.AircraftType,
		AircraftRegistration:   outbound.AircraftRegistration,
		OutboundDepartureICAO:  outbound.DepartureICAO,
		OutboundArrivalICAO:    outbound.ArrivalICAO,
		InboundDepartureICAO:   inbound.DepartureICAO,
		InboundArrivalICAO:     inbound.ArrivalICAO,
		FlightTimeHours:        ftlmath.RoundHours(flightHours),
		DutyTimeHours:          dutyHours,
		ScheduledDepartureUTC:  outbound.ScheduledDepartureUTC,
		ScheduledArrivalUTC:    inbound.ScheduledArrivalUTC,
		SectorCount:            2,
	}
	b.applyRequirements(&duty)
	return duty
}

func (b *Builder) emitSoloDuty(leg model.FlightLeg) model.Duty {
	dutyHours := ftlmath.RoundHours(dutyBuffer.Add(leg.FlightTimeHours))

	duty := model.Duty{
		OutboundFlightID:      leg.FlightID,
		AircraftType:          leg.AircraftType,
		AircraftRegistration:  leg.AircraftRegistration,
		OutboundDepartureICAO: leg.DepartureICAO,
		OutboundArrivalICAO:   leg.ArrivalICAO,
		FlightTimeHours:       ftlmath.RoundHours(leg.FlightTimeHours),
		DutyTimeHours:         dutyHours,
		ScheduledDepartureUTC: leg.ScheduledDepartureUTC,
		ScheduledArrivalUTC:   leg.ScheduledArrivalUTC,
		SectorCount:           1,
	}
	b.applyRequirements(&duty)
	return duty
}

func (b *Builder) applyRequirements(d *model.Duty) {
	req, ok := b.Requirements[d.AircraftType]
	if !ok {
		return
	}
	d.CaptainsRequired = req.Captains
	d.FirstOfficersRequired = req.FirstOfficers
	d.CabinCrewRequired = req.CabinCrew
}

func sortLegs(legs []model.FlightLeg) {
	sort.Slice(legs, func(i, j int) bool {
		if !legs[i].ScheduledDepartureUTC.Equal(legs[j].ScheduledDepartureUTC) {
			return legs[i].ScheduledDepartureUTC.Before(legs[j].ScheduledDepartureUTC)
		}
		return legs[i].FlightID < legs[j].FlightID
	})
}

func strPtr(s string) *string { return &s }
