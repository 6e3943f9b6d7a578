package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BuildingConfigStore reads building fee configuration
type BuildingConfigStore interface {
	// GetBuildingConfig returns the configuration of a building, shared.ErrNotFound if unknown
	GetBuildingConfig(ctx context.Context, buildingID uuid.UUID) (*BuildingConfig, error)
}

// UnitStore reads the leasable units of a building
type UnitStore interface {
	// ListUnitsByBuilding returns the building's units ordered by unit number
	ListUnitsByBuilding(ctx context.Context, buildingID uuid.UUID) ([]Unit, error)

	// GetUnit returns a single unit of a building, shared.ErrNotFound if it does not belong to it
	GetUnit(ctx context.Context, buildingID, unitID uuid.UUID) (*Unit, error)
}

// ContractStore reads lease contracts
type ContractStore interface {
	// ListContractsByUnit returns every contract recorded for a unit, any status
	ListContractsByUnit(ctx context.Context, unitID uuid.UUID) ([]Contract, error)
}

// MeterReadingStore reads meter readings
type MeterReadingStore interface {
	// ListReadings returns readings of a unit and utility type dated on or before until
	ListReadings(ctx context.Context, unitID, utilityTypeID uuid.UUID, until time.Time) ([]MeterReadingRecord, error)
}

// UtilityTypeCatalog reads the rate catalog
type UtilityTypeCatalog interface {
	// ListUtilityTypes returns all utility type definitions, active or not
	ListUtilityTypes(ctx context.Context) ([]UtilityTypeDef, error)
}

// InvoiceGateway submits invoice requests to the invoice-generation service
type InvoiceGateway interface {
	SubmitInvoice(ctx context.Context, req *InvoiceRequest) (*InvoiceReceipt, error)
}
