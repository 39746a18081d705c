package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tolga/ftlroster/internal/model"
)

// ErrCrewNotFound is returned when a crew lookup misses.
var ErrCrewNotFound = errors.New("crew not found")

// CrewRepository handles crew utilisation-counter persistence: loading
// the roster for a new run and writing back the counters
// extractor.ApplyUtilisation updated after a round.
type CrewRepository struct {
	db *DB
}

// NewCrewRepository creates a new crew repository.
func NewCrewRepository(db *DB) *CrewRepository {
	return &CrewRepository{db: db}
}

// List retrieves the full crew roster.
func (r *CrewRepository) List(ctx context.Context) ([]model.Crew, error) {
	var crews []model.Crew
	if err := r.db.GORM.WithContext(ctx).Order("crew_id ASC").Find(&crews).Error; err != nil {
		return nil, fmt.Errorf("failed to list crew: %w", err)
	}
	return crews, nil
}

// GetByID retrieves one crew member by ID.
func (r *CrewRepository) GetByID(ctx context.Context, crewID string) (*model.Crew, error) {
	var c model.Crew
	err := r.db.GORM.WithContext(ctx).First(&c, "crew_id = ?", crewID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCrewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crew: %w", err)
	}
	return &c, nil
}

// UpdateUtilisation persists the post-round utilisation counters for
// every crew member in the slice.
func (r *CrewRepository) UpdateUtilisation(ctx context.Context, crews []model.Crew) error {
	return r.db.GORM.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range crews {
			if err := tx.Model(&model.Crew{}).Where("crew_id = ?", c.CrewID).
				Select("CurrentMonthFlightTimeHours", "CurrentMonthDutyTimeHours", "CurrentCalendarYearFlightTimeHours").
				Updates(c).Error; err != nil {
				return fmt.Errorf("failed to update crew %s utilisation: %w", c.CrewID, err)
			}
		}
		return nil
	})
}

// ListTimeOffRequests retrieves every approved time-off request.
func (r *CrewRepository) ListTimeOffRequests(ctx context.Context) ([]model.TimeOffRequest, error) {
	var reqs []model.TimeOffRequest
	if err := r.db.GORM.WithContext(ctx).Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list time-off requests: %w", err)
	}
	return reqs, nil
}

// HistoricalFlightRecordRepository handles the pre-horizon work records
// rolling-window constraints look back over.
type HistoricalFlightRecordRepository struct {
	db *DB
}

// NewHistoricalFlightRecordRepository creates a new historical-record repository.
func NewHistoricalFlightRecordRepository(db *DB) *HistoricalFlightRecordRepository {
	return &HistoricalFlightRecordRepository{db: db}
}

// ListSince retrieves every historical record on or after cutoff, the
// longest rolling window's lookback horizon.
func (r *HistoricalFlightRecordRepository) ListSince(ctx context.Context, cutoff time.Time) ([]model.HistoricalFlightRecord, error) {
	var records []model.HistoricalFlightRecord
	if err := r.db.GORM.WithContext(ctx).Where("scheduled_departure_utc >= ?", cutoff).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list historical flight records: %w", err)
	}
	return records, nil
}
