package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/billing"
	"github.com/propertyhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// MeterReadingRepository implements billing.MeterReadingStore
type MeterReadingRepository struct {
	db *gorm.DB
}

// NewMeterReadingRepository creates a new meter reading repository
func NewMeterReadingRepository(db *gorm.DB) *MeterReadingRepository {
	return &MeterReadingRepository{db: db}
}

// ListReadings returns a unit's readings for one utility type dated on or before until, newest first
func (r *MeterReadingRepository) ListReadings(ctx context.Context, unitID, utilityTypeID uuid.UUID, until time.Time) ([]billing.MeterReadingRecord, error) {
	var models []MeterReadingModel
	err := r.db.WithContext(ctx).
		Where("unit_id = ? AND utility_type_id = ? AND reading_date <= ?", unitID, utilityTypeID, until).
		Order("reading_date DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list readings of unit %s: %w", unitID, err)
	}

	readings := make([]billing.MeterReadingRecord, len(models))
	for i := range models {
		readings[i] = models[i].ToEntity()
	}
	return readings, nil
}

// Save stores a new reading
func (r *MeterReadingRepository) Save(ctx context.Context, reading billing.MeterReadingRecord) error {
	if err := reading.Validate(); err != nil {
		return err
	}
	if reading.ID == uuid.Nil {
		return shared.NewValidationError("meter reading id is required")
	}
	return r.db.WithContext(ctx).Create(MeterReadingModelFromEntity(reading)).Error
}
