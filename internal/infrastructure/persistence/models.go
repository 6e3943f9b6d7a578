package persistence

import (
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// BuildingModel is the GORM model for buildings
type BuildingModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name              string          `gorm:"type:varchar(200);not null"`
	TotalLeasableArea decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	GeneratorFee      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TransformerFee    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt         time.Time       `gorm:"autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime"`
}

// TableName returns the table name for the model
func (BuildingModel) TableName() string {
	return "buildings"
}

// AllocationPoolModel is the building-wide amount of an ALLOCATED utility type
type AllocationPoolModel struct {
	BuildingID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UtilityTypeID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

// TableName returns the table name for the model
func (AllocationPoolModel) TableName() string {
	return "building_allocation_pools"
}

// ToConfig converts the building and its pools to a domain BuildingConfig
func (m *BuildingModel) ToConfig(pools []AllocationPoolModel) *billing.BuildingConfig {
	cfg := &billing.BuildingConfig{
		ID:                m.ID,
		Name:              m.Name,
		TotalLeasableArea: m.TotalLeasableArea,
		GeneratorFee:      m.GeneratorFee,
		TransformerFee:    m.TransformerFee,
	}
	if len(pools) > 0 {
		cfg.AllocatedPools = make(map[uuid.UUID]decimal.Decimal, len(pools))
		for _, p := range pools {
			cfg.AllocatedPools[p.UtilityTypeID] = p.Amount
		}
	}
	return cfg
}

// UnitModel is the GORM model for leasable units
type UnitModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BuildingID uuid.UUID       `gorm:"type:uuid;index;not null"`
	UnitNumber string          `gorm:"type:varchar(50);not null"`
	UnitSpace  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	HasMeter   bool            `gorm:"not null"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

// TableName returns the table name for the model
func (UnitModel) TableName() string {
	return "units"
}

// ToEntity converts the model to a domain unit
func (m *UnitModel) ToEntity() billing.Unit {
	return billing.Unit{
		ID:         m.ID,
		BuildingID: m.BuildingID,
		UnitNumber: m.UnitNumber,
		UnitSpace:  m.UnitSpace,
		HasMeter:   m.HasMeter,
	}
}

// ContractModel is the GORM model for lease contracts
type ContractModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UnitID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	TenantName string     `gorm:"type:varchar(200);not null"`
	Status     string     `gorm:"type:varchar(20);not null"`
	StartDate  time.Time  `gorm:"type:date;not null"`
	EndDate    *time.Time `gorm:"type:date"`
	CreatedAt  time.Time  `gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime"`
}

// TableName returns the table name for the model
func (ContractModel) TableName() string {
	return "lease_contracts"
}

// ToEntity converts the model to a domain contract
func (m *ContractModel) ToEntity() billing.Contract {
	return billing.Contract{
		ID:         m.ID,
		UnitID:     m.UnitID,
		TenantName: m.TenantName,
		Status:     billing.ContractStatus(m.Status),
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
	}
}

// UtilityTypeModel is the GORM model for the rate catalog
type UtilityTypeModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name              string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	CalculationMethod string          `gorm:"type:varchar(20);not null"`
	RatePerUnit       decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	Active            bool            `gorm:"not null"`
	CreatedAt         time.Time       `gorm:"autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime"`
}

// TableName returns the table name for the model
func (UtilityTypeModel) TableName() string {
	return "utility_types"
}

// ToEntity converts the model to a domain definition. Method names are normalized;
// an unknown method is kept as-is so the calculator can report it as unsupported.
func (m *UtilityTypeModel) ToEntity() billing.UtilityTypeDef {
	method, err := billing.ParseCalculationMethod(m.CalculationMethod)
	if err != nil {
		method = billing.CalculationMethod(m.CalculationMethod)
	}
	return billing.UtilityTypeDef{
		ID:                m.ID,
		Name:              m.Name,
		CalculationMethod: method,
		RatePerUnit:       m.RatePerUnit,
		Active:            m.Active,
	}
}

// MeterReadingModel is the GORM model for meter readings
type MeterReadingModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UnitID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_meter_readings_unit_type_date,priority:1"`
	UtilityTypeID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_meter_readings_unit_type_date,priority:2"`
	ReadingDate    time.Time       `gorm:"type:date;not null;index:idx_meter_readings_unit_type_date,priority:3"`
	CurrentReading decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

// TableName returns the table name for the model
func (MeterReadingModel) TableName() string {
	return "meter_readings"
}

// ToEntity converts the model to a domain reading
func (m *MeterReadingModel) ToEntity() billing.MeterReadingRecord {
	return billing.MeterReadingRecord{
		ID:             m.ID,
		UnitID:         m.UnitID,
		UtilityTypeID:  m.UtilityTypeID,
		ReadingDate:    m.ReadingDate,
		CurrentReading: m.CurrentReading,
	}
}

// MeterReadingModelFromEntity creates a model from a domain reading
func MeterReadingModelFromEntity(r billing.MeterReadingRecord) *MeterReadingModel {
	return &MeterReadingModel{
		ID:             r.ID,
		UnitID:         r.UnitID,
		UtilityTypeID:  r.UtilityTypeID,
		ReadingDate:    r.ReadingDate,
		CurrentReading: r.CurrentReading,
	}
}
