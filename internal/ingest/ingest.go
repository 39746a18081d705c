// Package ingest reads the engine's CSV input tables (flight legs,
// crew, time-off requests, historical flight records, per-aircraft-type
// crew requirements, regulation overrides) and writes the two CSV
// output tables, mirroring the teacher's CSV export style
// (internal/service/payrollexport.go) on the read side as well as the
// write side.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tolga/ftlroster/internal/model"
)

// IngestReport summarises one CSV ingestion pass: how many rows were
// accepted, how many were discarded for malformed data, and a warning
// per discarded row.
type IngestReport struct {
	Accepted  int
	Discarded int
	Warnings  []string
}

func (r *IngestReport) warn(row int, err error) {
	r.Discarded++
	r.Warnings = append(r.Warnings, fmt.Sprintf("row %d: %v", row, err))
}

// openCSV opens path and returns a reader positioned after the header
// row, plus a column-name-to-index map built from that header.
func openCSV(path string) (*csv.Reader, map[string]int, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, nil, nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	return r, cols, f.Close, nil
}

func col(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseIntOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	return s == "true" || s == "1" || s == "yes"
}

// isMissing reports whether a required field is absent: either empty or
// the literal string NULL some exports use in place of an empty cell.
func isMissing(s string) bool {
	return s == "" || s == "NULL"
}

var errMissingRequiredField = fmt.Errorf("missing required field")

// ReadFlightLegs reads the scheduled-flights input table.
func ReadFlightLegs(path string) ([]model.FlightLeg, *IngestReport, error) {
	r, cols, closeFn, err := openCSV(path)
	if err != nil {
		return nil, nil, err
	}
	defer closeFn()

	report := &IngestReport{}
	var legs []model.FlightLeg
	for rowNum := 1; ; rowNum++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.warn(rowNum, err)
			continue
		}
		flightID := col(row, cols, "flight_id")
		departureICAO := col(row, cols, "departure_icao")
		arrivalICAO := col(row, cols, "arrival_icao")
		if isMissing(flightID) || isMissing(departureICAO) || isMissing(arrivalICAO) {
			report.warn(rowNum, errMissingRequiredField)
			continue
		}
		dep, depErr := parseTime(col(row, cols, "scheduled_departure_utc"))
		arr, arrErr := parseTime(col(row, cols, "scheduled_arrival_utc"))
		flightHours, hoursErr := parseDecimal(col(row, cols, "flight_time_hours"))
		if depErr != nil || arrErr != nil || hoursErr != nil {
			report.warn(rowNum, firstErr(depErr, arrErr, hoursErr))
			continue
		}
		legs = append(legs, model.FlightLeg{
			FlightID:              flightID,
			DepartureICAO:         departureICAO,
			ArrivalICAO:           arrivalICAO,
			AircraftType:          col(row, cols, "aircraft_type"),
			AircraftRegistration:  col(row, cols, "aircraft_registration"),
			ScheduledDepartureUTC: dep,
			ScheduledArrivalUTC:   arr,
			FlightTimeHours:       flightHours,
		})
		report.Accepted++
	}
	return legs, report, nil
}

// ReadCrew reads the crew roster input table.
func ReadCrew(path string) ([]model.Crew, *IngestReport, error) {
	r, cols, closeFn, err := openCSV(path)
	if err != nil {
		return nil, nil, err
	}
	defer closeFn()

	report := &IngestReport{}
	var crews []model.Crew
	for rowNum := 1; ; rowNum++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.warn(rowNum, err)
			continue
		}
		role := model.Role(col(row, cols, "role"))
		if role != model.RoleCaptain && role != model.RoleFirstOfficer && role != model.RoleFlightAtt {
			report.warn(rowNum, fmt.Errorf("unrecognised role %q", role))
			continue
		}
		currentMonthFlight, e1 := parseFloat(col(row, cols, "current_month_flight_time_hours"))
		currentMonthDuty, e2 := parseFloat(col(row, cols, "current_month_duty_time_hours"))
		last11Months, e3 := parseFloat(col(row, cols, "last_11_calendar_months_flight_time_hours"))
		currentYear, e4 := parseFloat(col(row, cols, "current_calendar_year_flight_time_hours"))
		if err := firstErr(e1, e2, e3, e4); err != nil {
			report.warn(rowNum, err)
			continue
		}
		crews = append(crews, model.Crew{
			CrewID:                              col(row, cols, "crew_id"),
			Role:                                role,
			Qualifications:                      splitComma(col(row, cols, "qualifications")),
			Purser:                              parseBool(col(row, cols, "purser")),
			Seniority:                           parseIntOr(col(row, cols, "seniority"), 0),
			CurrentMonthFlightTimeHours:         currentMonthFlight,
			CurrentMonthDutyTimeHours:           currentMonthDuty,
			Last11CalendarMonthsFlightTimeHours: last11Months,
			CurrentCalendarYearFlightTimeHours:  currentYear,
		})
		report.Accepted++
	}
	return crews, report, nil
}

// ReadTimeOffRequests reads the approved-time-off input table.
func ReadTimeOffRequests(path string) ([]model.TimeOffRequest, *IngestReport, error) {
	r, cols, closeFn, err := openCSV(path)
	if err != nil {
		return nil, nil, err
	}
	defer closeFn()

	report := &IngestReport{}
	var requests []model.TimeOffRequest
	for rowNum := 1; ; rowNum++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.warn(rowNum, err)
			continue
		}
		start, e1 := parseTime(col(row, cols, "start_date"))
		end, e2 := parseTime(col(row, cols, "end_date"))
		if err := firstErr(e1, e2); err != nil {
			report.warn(rowNum, err)
			continue
		}
		requests = append(requests, model.TimeOffRequest{
			CrewID:    col(row, cols, "crew_id"),
			StartDate: start,
			EndDate:   end,
		})
		report.Accepted++
	}
	return requests, report, nil
}

// ReadHistoricalFlightRecords reads the pre-horizon work-record input
// table used to seed rolling-window constraints.
func ReadHistoricalFlightRecords(path string) ([]model.HistoricalFlightRecord, *IngestReport, error) {
	r, cols, closeFn, err := openCSV(path)
	if err != nil {
		return nil, nil, err
	}
	defer closeFn()

	report := &IngestReport{}
	var records []model.HistoricalFlightRecord
	for rowNum := 1; ; rowNum++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.warn(rowNum, err)
			continue
		}
		dep, e1 := parseTime(col(row, cols, "scheduled_departure_utc"))
		flightHours, e2 := parseFloat(col(row, cols, "flight_time_hours"))
		dutyHours, e3 := parseFloat(col(row, cols, "duty_time_hours"))
		if err := firstErr(e1, e2, e3); err != nil {
			report.warn(rowNum, err)
			continue
		}
		records = append(records, model.HistoricalFlightRecord{
			CrewID:                col(row, cols, "crew_id"),
			ScheduledDepartureUTC: dep,
			FlightTimeHours:       flightHours,
			DutyTimeHours:         dutyHours,
		})
		report.Accepted++
	}
	return records, report, nil
}

// ReadCrewRequirements reads the per-aircraft-type crewing requirements
// input table, keyed by aircraft type.
func ReadCrewRequirements(path string) (map[string]model.CrewRequirement, *IngestReport, error) {
	r, cols, closeFn, err := openCSV(path)
	if err != nil {
		return nil, nil, err
	}
	defer closeFn()

	report := &IngestReport{}
	requirements := make(map[string]model.CrewRequirement)
	for rowNum := 1; ; rowNum++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.warn(rowNum, err)
			continue
		}
		req := model.CrewRequirement{
			AircraftType:  col(row, cols, "model"),
			Captains:      parseIntOr(col(row, cols, "captains"), 0),
			FirstOfficers: parseIntOr(col(row, cols, "first_officers"), 0),
			CabinCrew:     parseIntOr(col(row, cols, "cabin_crew"), 0),
		}
		requirements[req.AircraftType] = req
		report.Accepted++
	}
	return requirements, report, nil
}

// ReadRegulations reads regulation-override rows, starting from
// model.DefaultRegulations and overwriting any key present in the file.
func ReadRegulations(path string) (model.RegulationSet, *IngestReport, error) {
	r, cols, closeFn, err := openCSV(path)
	if err != nil {
		return nil, nil, err
	}
	defer closeFn()

	report := &IngestReport{}
	regs := model.DefaultRegulations()
	for rowNum := 1; ; rowNum++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.warn(rowNum, err)
			continue
		}
		key := col(row, cols, "constraint_name")
		value, err := strconv.Atoi(col(row, cols, "value"))
		if err != nil {
			report.warn(rowNum, err)
			continue
		}
		regs[key] = value
		report.Accepted++
	}
	return regs, report, nil
}

func splitComma(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}

func firstErr(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}
