package model

import (
	"time"

	"github.com/lib/pq"
)

// Crew is a crew member and their accumulated FTL utilisation counters.
// Counters are ground truth for pre-filtering and historical offsets
// inside constraints; they are only updated between solve rounds, never
// during one (spec §5).
type Crew struct {
	CrewID         string        `gorm:"column:crew_id;primaryKey"`
	Role           Role          `gorm:"column:role"`
	Qualifications pq.StringArray `gorm:"column:qualifications;type:text[]"`
	Purser         bool          `gorm:"column:purser"`
	Seniority      int           `gorm:"column:seniority"`

	CurrentMonthFlightTimeHours           float64 `gorm:"column:current_month_flight_time_hours"`
	CurrentMonthDutyTimeHours             float64 `gorm:"column:current_month_duty_time_hours"`
	Last11CalendarMonthsFlightTimeHours   float64 `gorm:"column:last_11_calendar_months_flight_time_hours"`
	CurrentCalendarYearFlightTimeHours    float64 `gorm:"column:current_calendar_year_flight_time_hours"`
}

// IsQualifiedFor reports whether the crew may operate the given
// aircraft type: an explicit qualification or the ALL sentinel.
func (c Crew) IsQualifiedFor(aircraftType string) bool {
	for _, q := range c.Qualifications {
		if q == QualificationAll || q == aircraftType {
			return true
		}
	}
	return false
}

// TimeOffRequest is an approved time-off interval, inclusive of both
// endpoints (UTC calendar dates).
type TimeOffRequest struct {
	CrewID    string    `gorm:"column:crew_id"`
	StartDate time.Time `gorm:"column:start_date"`
	EndDate   time.Time `gorm:"column:end_date"`
}

// Conflicts reports whether the given departure timestamp falls inside
// the closed [StartDate, EndDate] interval.
func (t TimeOffRequest) Conflicts(departureUTC time.Time) bool {
	y, m, d := departureUTC.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return !date.Before(t.StartDate) && !date.After(t.EndDate)
}

// HistoricalFlightRecord is work already performed before the planning
// horizon, used to seed rolling-window constraints.
type HistoricalFlightRecord struct {
	CrewID                string    `gorm:"column:crew_id"`
	ScheduledDepartureUTC time.Time `gorm:"column:scheduled_departure_utc"`
	FlightTimeHours       float64   `gorm:"column:flight_time_hours"`
	DutyTimeHours         float64   `gorm:"column:duty_time_hours"`
}

// Date returns the historical record's calendar day, UTC.
func (h HistoricalFlightRecord) Date() time.Time {
	y, m, d := h.ScheduledDepartureUTC.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
