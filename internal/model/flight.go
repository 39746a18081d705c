package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FlightLeg is one atomic scheduled flight, immutable after ingestion.
type FlightLeg struct {
	FlightID              string          `gorm:"column:flight_id;primaryKey"`
	DepartureICAO         string          `gorm:"column:departure_icao"`
	ArrivalICAO           string          `gorm:"column:arrival_icao"`
	AircraftType          string          `gorm:"column:aircraft_type"`
	AircraftRegistration  string          `gorm:"column:aircraft_registration"`
	ScheduledDepartureUTC time.Time       `gorm:"column:scheduled_departure_utc"`
	ScheduledArrivalUTC   time.Time       `gorm:"column:scheduled_arrival_utc"`
	ActualDepartureUTC    *time.Time      `gorm:"column:actual_departure_utc"`
	ActualArrivalUTC      *time.Time      `gorm:"column:actual_arrival_utc"`
	FlightTimeHours       decimal.Decimal `gorm:"column:flight_time_hours;type:numeric"`
}

// Duty is a one- or two-leg pairing rooted at the home base, created
// by the Pairing Builder and immutable thereafter.
type Duty struct {
	DutyID                      int             `gorm:"column:duty_id;primaryKey"`
	OutboundFlightID            string          `gorm:"column:outbound_flight_id"`
	InboundFlightID             *string         `gorm:"column:inbound_flight_id"`
	AircraftType                string          `gorm:"column:aircraft_type"`
	AircraftRegistration        string          `gorm:"column:aircraft_registration"`
	OutboundDepartureICAO       string          `gorm:"column:outbound_departure_icao"`
	OutboundArrivalICAO         string          `gorm:"column:outbound_arrival_icao"`
	InboundDepartureICAO        string          `gorm:"column:inbound_departure_icao"`
	InboundArrivalICAO          string          `gorm:"column:inbound_arrival_icao"`
	FlightTimeHours             decimal.Decimal `gorm:"column:flight_time_hours;type:numeric"`
	DutyTimeHours               decimal.Decimal `gorm:"column:duty_time_hours;type:numeric"`
	ScheduledDepartureUTC       time.Time       `gorm:"column:scheduled_departure_utc"`
	ScheduledArrivalUTC         time.Time       `gorm:"column:scheduled_arrival_utc"`
	SectorCount                 int             `gorm:"column:sector_count"`
	CaptainsRequired             int            `gorm:"column:captains_required"`
	FirstOfficersRequired        int            `gorm:"column:first_officers_required"`
	CabinCrewRequired            int            `gorm:"column:cabin_crew_required"`
}

// Date returns the duty's scheduling date (the outbound departure's
// calendar day, UTC), the key used throughout feasibility and
// constraint indices.
func (d Duty) Date() time.Time {
	y, m, day := d.ScheduledDepartureUTC.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// RequiredFor returns the crewing requirement for the given role.
func (d Duty) RequiredFor(role Role) int {
	switch role {
	case RoleCaptain:
		return d.CaptainsRequired
	case RoleFirstOfficer:
		return d.FirstOfficersRequired
	case RoleFlightAtt:
		return d.CabinCrewRequired
	default:
		return 0
	}
}

// CrewRequirement is one row of the crew-requirements-per-aircraft-type
// input table.
type CrewRequirement struct {
	AircraftType   string `gorm:"column:model;primaryKey"`
	Captains       int    `gorm:"column:captains"`
	FirstOfficers  int    `gorm:"column:first_officers"`
	CabinCrew      int    `gorm:"column:cabin_crew"`
}
