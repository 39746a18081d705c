package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tolga/ftlroster/internal/model"
	"github.com/tolga/ftlroster/internal/repository"
	"github.com/tolga/ftlroster/internal/testutil"
)

func TestOutputRepository_WriteRoster_ReplacesPriorContents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOutputRepository(db)
	ctx := context.Background()

	first := &model.Roster{
		Status: model.StatusOptimal,
		Duties: []model.Duty{{DutyID: 1, AircraftType: "A320", ScheduledDepartureUTC: time.Now(), ScheduledArrivalUTC: time.Now(), FlightTimeHours: decimal.NewFromInt(1), DutyTimeHours: decimal.NewFromInt(1)}},
		Assignments: []model.AssignmentRecord{
			{CrewID: "CPT1", DutyID: 1, CrewRole: model.RoleCaptain},
		},
	}
	require.NoError(t, repo.WriteRoster(ctx, first))

	second := &model.Roster{
		Status: model.StatusOptimal,
		Duties: []model.Duty{{DutyID: 2, AircraftType: "A320", ScheduledDepartureUTC: time.Now(), ScheduledArrivalUTC: time.Now(), FlightTimeHours: decimal.NewFromInt(1), DutyTimeHours: decimal.NewFromInt(1)}},
		Assignments: []model.AssignmentRecord{
			{CrewID: "CPT2", DutyID: 2, CrewRole: model.RoleCaptain},
		},
	}
	require.NoError(t, repo.WriteRoster(ctx, second))

	var duties []model.Duty
	require.NoError(t, db.GORM.WithContext(ctx).Table("pairings_output").Find(&duties).Error)
	require.Len(t, duties, 1)
	assert.Equal(t, 2, duties[0].DutyID)

	var assignments []model.AssignmentRecord
	require.NoError(t, db.GORM.WithContext(ctx).Table("crew_schedule_output").Find(&assignments).Error)
	require.Len(t, assignments, 1)
	assert.Equal(t, "CPT2", assignments[0].CrewID)
}
