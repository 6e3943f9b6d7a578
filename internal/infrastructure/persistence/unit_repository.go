package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/billing"
	"github.com/propertyhub/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UnitRepository implements billing.UnitStore
type UnitRepository struct {
	db *gorm.DB
}

// NewUnitRepository creates a new unit repository
func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// ListUnitsByBuilding returns the building's units ordered by unit number
func (r *UnitRepository) ListUnitsByBuilding(ctx context.Context, buildingID uuid.UUID) ([]billing.Unit, error) {
	var models []UnitModel
	err := r.db.WithContext(ctx).
		Where("building_id = ?", buildingID).
		Order("unit_number ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list units of building %s: %w", buildingID, err)
	}

	units := make([]billing.Unit, len(models))
	for i := range models {
		units[i] = models[i].ToEntity()
	}
	return units, nil
}

// GetUnit returns one unit of a building
func (r *UnitRepository) GetUnit(ctx context.Context, buildingID, unitID uuid.UUID) (*billing.Unit, error) {
	var model UnitModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND building_id = ?", unitID, buildingID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(fmt.Sprintf("unit %s not found in building %s", unitID, buildingID))
		}
		return nil, fmt.Errorf("load unit %s: %w", unitID, err)
	}
	unit := model.ToEntity()
	return &unit, nil
}

// Save upserts a unit
func (r *UnitRepository) Save(ctx context.Context, unit billing.Unit) error {
	model := &UnitModel{
		ID:         unit.ID,
		BuildingID: unit.BuildingID,
		UnitNumber: unit.UnitNumber,
		UnitSpace:  unit.UnitSpace,
		HasMeter:   unit.HasMeter,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(model).Error
}
