// Package feasibility implements the Feasibility Filter: it shrinks
// the (crew, duty) universe to the pairs not excluded by
// qualification, accumulated utilisation, or approved time off, and
// pre-groups the duty and historical-record tables into the indices
// every constraint family consumes.
package feasibility

import (
	"time"

	"github.com/tolga/ftlroster/internal/model"
	"github.com/tolga/ftlroster/internal/timeutil"
)

// Indices holds the duties-by-date and history-by-crew groupings built
// once before any constraint family runs, replacing repeated table
// re-scans.
type Indices struct {
	DutiesByDate map[time.Time][]model.Duty
	HistoryByCrew map[string][]model.HistoricalFlightRecord
}

// NewIndices builds the shared lookup indices from the duty table and
// historical records.
func NewIndices(duties []model.Duty, historical []model.HistoricalFlightRecord) *Indices {
	idx := &Indices{
		DutiesByDate:  make(map[time.Time][]model.Duty),
		HistoryByCrew: make(map[string][]model.HistoricalFlightRecord),
	}
	for _, d := range duties {
		date := d.Date()
		idx.DutiesByDate[date] = append(idx.DutiesByDate[date], d)
	}
	for _, h := range historical {
		idx.HistoryByCrew[h.CrewID] = append(idx.HistoryByCrew[h.CrewID], h)
	}
	return idx
}

// SumFlightHours sums the flight hours of crewID's historical records
// whose date falls in [start, end] inclusive.
func (idx *Indices) SumFlightHours(crewID string, start, end time.Time) float64 {
	var total float64
	for _, h := range idx.HistoryByCrew[crewID] {
		if timeutil.InRange(h.Date(), start, end) {
			total += h.FlightTimeHours
		}
	}
	return total
}

// SumDutyHours sums the duty hours of crewID's historical records
// whose date falls in [start, end] inclusive.
func (idx *Indices) SumDutyHours(crewID string, start, end time.Time) float64 {
	var total float64
	for _, h := range idx.HistoryByCrew[crewID] {
		if timeutil.InRange(h.Date(), start, end) {
			total += h.DutyTimeHours
		}
	}
	return total
}

// CountDistinctWorkDays counts the distinct calendar days in
// [start, end] inclusive on which crewID has at least one historical
// record.
func (idx *Indices) CountDistinctWorkDays(crewID string, start, end time.Time) int {
	days := make(map[time.Time]bool)
	for _, h := range idx.HistoryByCrew[crewID] {
		d := h.Date()
		if timeutil.InRange(d, start, end) {
			days[d] = true
		}
	}
	return len(days)
}
