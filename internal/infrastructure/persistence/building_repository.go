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

// BuildingRepository implements billing.BuildingConfigStore
type BuildingRepository struct {
	db *gorm.DB
}

// NewBuildingRepository creates a new building repository
func NewBuildingRepository(db *gorm.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

// GetBuildingConfig loads a building's fee configuration and its allocation pools
func (r *BuildingRepository) GetBuildingConfig(ctx context.Context, buildingID uuid.UUID) (*billing.BuildingConfig, error) {
	var model BuildingModel
	if err := r.db.WithContext(ctx).Where("id = ?", buildingID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(fmt.Sprintf("building %s not found", buildingID))
		}
		return nil, fmt.Errorf("load building %s: %w", buildingID, err)
	}

	var pools []AllocationPoolModel
	if err := r.db.WithContext(ctx).Where("building_id = ?", buildingID).Find(&pools).Error; err != nil {
		return nil, fmt.Errorf("load allocation pools of building %s: %w", buildingID, err)
	}
	return model.ToConfig(pools), nil
}

// Save upserts a building configuration, replacing its allocation pools
func (r *BuildingRepository) Save(ctx context.Context, cfg *billing.BuildingConfig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := &BuildingModel{
			ID:                cfg.ID,
			Name:              cfg.Name,
			TotalLeasableArea: cfg.TotalLeasableArea,
			GeneratorFee:      cfg.GeneratorFee,
			TransformerFee:    cfg.TransformerFee,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "total_leasable_area", "generator_fee", "transformer_fee", "updated_at"}),
		}).Create(model).Error; err != nil {
			return fmt.Errorf("save building %s: %w", cfg.ID, err)
		}

		if err := tx.Where("building_id = ?", cfg.ID).Delete(&AllocationPoolModel{}).Error; err != nil {
			return fmt.Errorf("clear allocation pools of building %s: %w", cfg.ID, err)
		}
		if len(cfg.AllocatedPools) == 0 {
			return nil
		}
		pools := make([]AllocationPoolModel, 0, len(cfg.AllocatedPools))
		for typeID, amount := range cfg.AllocatedPools {
			pools = append(pools, AllocationPoolModel{BuildingID: cfg.ID, UtilityTypeID: typeID, Amount: amount})
		}
		return tx.Create(&pools).Error
	})
}
