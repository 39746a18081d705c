package repository

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tolga/ftlroster/internal/model"
)

// regulationRow is the single-row table a RegulationSet round-trips
// through: one named set per ICAO home base, the whole map in one
// JSON column rather than one row per key.
type regulationRow struct {
	HomeBaseICAO string            `gorm:"column:home_base_icao;primaryKey"`
	Values       datatypes.JSONMap `gorm:"column:values;type:jsonb"`
}

func (regulationRow) TableName() string { return "regulations" }

// RegulationRepository persists a home base's regulation overrides as
// a single JSON document, so an operator can update one limit without
// reloading the full CSV.
type RegulationRepository struct {
	db *DB
}

// NewRegulationRepository creates a new regulation repository.
func NewRegulationRepository(db *DB) *RegulationRepository {
	return &RegulationRepository{db: db}
}

// Get retrieves the regulation set for homeBaseICAO, falling back to
// model.DefaultRegulations when no row exists yet.
func (r *RegulationRepository) Get(ctx context.Context, homeBaseICAO string) (model.RegulationSet, error) {
	var row regulationRow
	err := r.db.GORM.WithContext(ctx).First(&row, "home_base_icao = ?", homeBaseICAO).Error
	if err == gorm.ErrRecordNotFound {
		return model.DefaultRegulations(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load regulations for %s: %w", homeBaseICAO, err)
	}
	return model.RegulationSetFromJSONMap(row.Values), nil
}

// Put upserts the regulation set for homeBaseICAO.
func (r *RegulationRepository) Put(ctx context.Context, homeBaseICAO string, regs model.RegulationSet) error {
	row := regulationRow{HomeBaseICAO: homeBaseICAO, Values: regs.ToJSONMap()}
	err := r.db.GORM.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "home_base_icao"}},
			DoUpdates: clause.AssignmentColumns([]string{"values"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert regulations for %s: %w", homeBaseICAO, err)
	}
	return nil
}
