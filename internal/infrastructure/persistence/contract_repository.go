package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/billing"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContractRepository implements billing.ContractStore against the local database
type ContractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// ListContractsByUnit returns every contract of a unit, newest start first
func (r *ContractRepository) ListContractsByUnit(ctx context.Context, unitID uuid.UUID) ([]billing.Contract, error) {
	var models []ContractModel
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Order("start_date DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list contracts of unit %s: %w", unitID, err)
	}

	contracts := make([]billing.Contract, len(models))
	for i := range models {
		contracts[i] = models[i].ToEntity()
	}
	return contracts, nil
}

// Save upserts a contract
func (r *ContractRepository) Save(ctx context.Context, c billing.Contract) error {
	model := &ContractModel{
		ID:         c.ID,
		UnitID:     c.UnitID,
		TenantName: c.TenantName,
		Status:     string(c.Status),
		StartDate:  c.StartDate,
		EndDate:    c.EndDate,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(model).Error
}
