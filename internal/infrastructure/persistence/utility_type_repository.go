package persistence

import (
	"context"
	"fmt"

	"github.com/propertyhub/backend/internal/domain/billing"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UtilityTypeRepository implements billing.UtilityTypeCatalog
type UtilityTypeRepository struct {
	db *gorm.DB
}

// NewUtilityTypeRepository creates a new utility type repository
func NewUtilityTypeRepository(db *gorm.DB) *UtilityTypeRepository {
	return &UtilityTypeRepository{db: db}
}

// ListUtilityTypes returns the whole catalog ordered by name
func (r *UtilityTypeRepository) ListUtilityTypes(ctx context.Context) ([]billing.UtilityTypeDef, error) {
	var models []UtilityTypeModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list utility types: %w", err)
	}

	defs := make([]billing.UtilityTypeDef, len(models))
	for i := range models {
		defs[i] = models[i].ToEntity()
	}
	return defs, nil
}

// Save upserts a utility type after validating it
func (r *UtilityTypeRepository) Save(ctx context.Context, def billing.UtilityTypeDef) error {
	if err := def.Validate(); err != nil {
		return err
	}
	model := &UtilityTypeModel{
		ID:                def.ID,
		Name:              def.Name,
		CalculationMethod: string(def.CalculationMethod),
		RatePerUnit:       def.RatePerUnit,
		Active:            def.Active,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(model).Error
}
