package pairing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tolga/ftlroster/internal/model"
	"github.com/tolga/ftlroster/internal/pairing"
)

func mustUTC(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func leg(id, dep, arr string, depTime, arrTime string, acType, reg string) model.FlightLeg {
	d, a := mustUTC(depTime), mustUTC(arrTime)
	return model.FlightLeg{
		FlightID:              id,
		DepartureICAO:         dep,
		ArrivalICAO:           arr,
		AircraftType:          acType,
		AircraftRegistration:  reg,
		ScheduledDepartureUTC: d,
		ScheduledArrivalUTC:   a,
		FlightTimeHours:       decimal.NewFromFloat(a.Sub(d).Hours()).Round(2),
	}
}

func TestBuild_SingleLeg(t *testing.T) {
	legs := []model.FlightLeg{
		leg("FL1", "ELLX", "EGLL", "2025-10-01T08:00", "2025-10-01T09:30", "A320", "REG1"),
	}
	b := pairing.NewBuilder(model.HomeBaseICAO, nil)

	duties := b.Build(legs, decimal.NewFromInt(13))

	require.Len(t, duties, 1)
	assert.Equal(t, 1, duties[0].SectorCount)
	assert.Equal(t, "FL1", duties[0].OutboundFlightID)
	assert.Nil(t, duties[0].InboundFlightID)
}

func TestBuild_MatchedReturn(t *testing.T) {
	legs := []model.FlightLeg{
		leg("FL1", "ELLX", "EGLL", "2025-10-01T08:00", "2025-10-01T09:30", "A320", "REG1"),
		leg("FL2", "EGLL", "ELLX", "2025-10-01T11:00", "2025-10-01T12:30", "A320", "REG1"),
	}
	b := pairing.NewBuilder(model.HomeBaseICAO, nil)

	duties := b.Build(legs, decimal.NewFromInt(13))

	require.Len(t, duties, 1)
	assert.Equal(t, 2, duties[0].SectorCount)
	require.NotNil(t, duties[0].InboundFlightID)
	assert.Equal(t, "FL2", *duties[0].InboundFlightID)
	assert.True(t, decimal.NewFromFloat(6.0).Equal(duties[0].DutyTimeHours), "expected 6.0 duty hours, got %s", duties[0].DutyTimeHours)
}

func TestBuild_TurnaroundTooLong(t *testing.T) {
	legs := []model.FlightLeg{
		leg("FL1", "ELLX", "EGLL", "2025-10-01T08:00", "2025-10-01T09:30", "A320", "REG1"),
		leg("FL2", "EGLL", "ELLX", "2025-10-01T14:00", "2025-10-01T15:30", "A320", "REG1"),
	}
	b := pairing.NewBuilder(model.HomeBaseICAO, nil)

	duties := b.Build(legs, decimal.NewFromInt(13))

	require.Len(t, duties, 2)
	for _, d := range duties {
		assert.Equal(t, 1, d.SectorCount)
	}
}

func TestBuild_EveryLegAppearsExactlyOnce(t *testing.T) {
	legs := []model.FlightLeg{
		leg("FL1", "ELLX", "EGLL", "2025-10-01T08:00", "2025-10-01T09:30", "A320", "REG1"),
		leg("FL2", "EGLL", "ELLX", "2025-10-01T11:00", "2025-10-01T12:30", "A320", "REG1"),
		leg("FL3", "ELLX", "LFPG", "2025-10-02T08:00", "2025-10-02T09:00", "A320", "REG2"),
	}
	b := pairing.NewBuilder(model.HomeBaseICAO, nil)

	duties := b.Build(legs, decimal.NewFromInt(13))

	seen := make(map[string]int)
	for _, d := range duties {
		seen[d.OutboundFlightID]++
		if d.InboundFlightID != nil {
			seen[*d.InboundFlightID]++
		}
	}
	for _, l := range legs {
		assert.Equal(t, 1, seen[l.FlightID], "leg %s should appear exactly once", l.FlightID)
	}
}
