package model

import (
	"time"

	"github.com/google/uuid"
)

// SolveStatus mirrors the status codes a CP-SAT-class solver returns
// (spec §6). Only Optimal and Feasible yield an output roster.
type SolveStatus string

const (
	StatusOptimal     SolveStatus = "Optimal"
	StatusFeasible    SolveStatus = "Feasible"
	StatusInfeasible  SolveStatus = "Infeasible"
	StatusInvalid     SolveStatus = "Invalid"
	StatusUnknown     SolveStatus = "Unknown"
)

// HasOutput reports whether the status yields a roster.
func (s SolveStatus) HasOutput() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// AssignmentRecord is one row of crew_schedule_output: a solved
// (crew, duty) assignment with denormalised duty/crew metadata needed
// downstream, mirroring the original's flat per-assignment dict.
type AssignmentRecord struct {
	RunID      uuid.UUID `gorm:"column:run_id"`
	CrewID     string    `gorm:"column:crew_id"`
	DutyID     int       `gorm:"column:duty_id"`
	CrewRole   Role      `gorm:"column:crew_role"`
	CrewPurser bool      `gorm:"column:crew_purser"`

	DutyScheduledDepartureUTC time.Time `gorm:"column:duty_scheduled_departure_utc"`
	DutyScheduledArrivalUTC   time.Time `gorm:"column:duty_scheduled_arrival_utc"`
	DutyAircraftType          string    `gorm:"column:duty_aircraft_type"`
	DutyAircraftRegistration  string    `gorm:"column:duty_aircraft_registration"`
	DutyFlightTimeHours       float64   `gorm:"column:duty_flight_time_hours"`
	DutyTimeHours             float64   `gorm:"column:duty_time_hours"`
	DutySectorCount           int       `gorm:"column:duty_sector_count"`

	DutyOutboundFlightID      string `gorm:"column:duty_outbound_flight_id"`
	DutyInboundFlightID       string `gorm:"column:duty_inbound_flight_id"`
	DutyOutboundDepartureICAO string `gorm:"column:duty_outbound_departure_icao"`
	DutyOutboundArrivalICAO   string `gorm:"column:duty_outbound_arrival_icao"`
	DutyInboundDepartureICAO  string `gorm:"column:duty_inbound_departure_icao"`
	DutyInboundArrivalICAO    string `gorm:"column:duty_inbound_arrival_icao"`
}

// Roster is the fully extracted solve result: one record per assignment
// plus the duty table it was assigned against and the final solve
// status.
type Roster struct {
	RunID       uuid.UUID
	Status      SolveStatus
	Assignments []AssignmentRecord
	Duties      []Duty
}
