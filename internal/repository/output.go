package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tolga/ftlroster/internal/model"
)

// OutputRepository persists the two result tables a completed solve
// round produces: crew_schedule_output (one row per assignment) and
// pairings_output (the duty table the roster was solved against).
type OutputRepository struct {
	db *DB
}

// NewOutputRepository creates a new output repository.
func NewOutputRepository(db *DB) *OutputRepository {
	return &OutputRepository{db: db}
}

// WriteRoster replaces the output tables with the given roster's
// contents inside a single transaction, so a partial write is never
// visible to a concurrent reader.
func (r *OutputRepository) WriteRoster(ctx context.Context, roster *model.Roster) error {
	return r.db.GORM.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM pairings_output").Error; err != nil {
			return fmt.Errorf("failed to clear pairings_output: %w", err)
		}
		if len(roster.Duties) > 0 {
			if err := tx.Table("pairings_output").Clauses(clause.OnConflict{DoNothing: true}).Create(&roster.Duties).Error; err != nil {
				return fmt.Errorf("failed to write pairings_output: %w", err)
			}
		}

		if err := tx.Exec("DELETE FROM crew_schedule_output").Error; err != nil {
			return fmt.Errorf("failed to clear crew_schedule_output: %w", err)
		}
		if len(roster.Assignments) > 0 {
			if err := tx.Table("crew_schedule_output").Create(&roster.Assignments).Error; err != nil {
				return fmt.Errorf("failed to write crew_schedule_output: %w", err)
			}
		}
		return nil
	})
}
