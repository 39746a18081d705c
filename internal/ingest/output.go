package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tolga/ftlroster/internal/model"
)

// WriteAssignments writes the crew_schedule_output table to path, one
// row per solved assignment.
func WriteAssignments(path string, roster *model.Roster) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	header := []string{
		"run_id", "crew_id", "duty_id", "crew_role", "crew_purser",
		"duty_scheduled_departure_utc", "duty_scheduled_arrival_utc",
		"duty_aircraft_type", "duty_aircraft_registration",
		"duty_flight_time_hours", "duty_time_hours", "duty_sector_count",
		"duty_outbound_flight_id", "duty_inbound_flight_id",
		"duty_outbound_departure_icao", "duty_outbound_arrival_icao",
		"duty_inbound_departure_icao", "duty_inbound_arrival_icao",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, a := range roster.Assignments {
		record := []string{
			a.RunID.String(),
			a.CrewID,
			strconv.Itoa(a.DutyID),
			string(a.CrewRole),
			strconv.FormatBool(a.CrewPurser),
			a.DutyScheduledDepartureUTC.Format(time.RFC3339),
			a.DutyScheduledArrivalUTC.Format(time.RFC3339),
			a.DutyAircraftType,
			a.DutyAircraftRegistration,
			strconv.FormatFloat(a.DutyFlightTimeHours, 'f', 2, 64),
			strconv.FormatFloat(a.DutyTimeHours, 'f', 2, 64),
			strconv.Itoa(a.DutySectorCount),
			a.DutyOutboundFlightID,
			a.DutyInboundFlightID,
			a.DutyOutboundDepartureICAO,
			a.DutyOutboundArrivalICAO,
			a.DutyInboundDepartureICAO,
			a.DutyInboundArrivalICAO,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write assignment row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// WritePairings writes the pairings_output table to path, one row per
// duty the roster was solved against.
func WritePairings(path string, duties []model.Duty) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	header := []string{
		"duty_id", "outbound_flight_id", "inbound_flight_id", "aircraft_type",
		"aircraft_registration", "scheduled_departure_utc", "scheduled_arrival_utc",
		"sector_count", "flight_time_hours", "duty_time_hours",
		"captains_required", "first_officers_required", "cabin_crew_required",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, d := range duties {
		inbound := ""
		if d.InboundFlightID != nil {
			inbound = *d.InboundFlightID
		}
		flightHours, _ := d.FlightTimeHours.Float64()
		dutyHours, _ := d.DutyTimeHours.Float64()
		record := []string{
			strconv.Itoa(d.DutyID),
			d.OutboundFlightID,
			inbound,
			d.AircraftType,
			d.AircraftRegistration,
			d.ScheduledDepartureUTC.Format(time.RFC3339),
			d.ScheduledArrivalUTC.Format(time.RFC3339),
			strconv.Itoa(d.SectorCount),
			strconv.FormatFloat(flightHours, 'f', 2, 64),
			strconv.FormatFloat(dutyHours, 'f', 2, 64),
			strconv.Itoa(d.CaptainsRequired),
			strconv.Itoa(d.FirstOfficersRequired),
			strconv.Itoa(d.CabinCrewRequired),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write pairing row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
