package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Unit is a leasable unit as held by the unit store
type Unit struct {
	ID         uuid.UUID       `json:"id"`
	BuildingID uuid.UUID       `json:"building_id"`
	UnitNumber string          `json:"unit_number"`
	UnitSpace  decimal.Decimal `json:"unit_space"`
	HasMeter   bool            `json:"has_meter"`
}

// UnitInfo is a unit together with its resolved occupancy
type UnitInfo struct {
	ID         uuid.UUID       `json:"id"`
	UnitNumber string          `json:"unit_number"`
	UnitSpace  decimal.Decimal `json:"unit_space"`
	IsOccupied bool            `json:"is_occupied"`
	TenantName string          `json:"tenant_name,omitempty"`
	HasMeter   bool            `json:"has_meter"`
}

// NewVacantUnitInfo builds a UnitInfo with no tenant
func NewVacantUnitInfo(u Unit) UnitInfo {
	return UnitInfo{
		ID:         u.ID,
		UnitNumber: u.UnitNumber,
		UnitSpace:  u.UnitSpace,
		HasMeter:   u.HasMeter,
	}
}

// Validate rejects negative floor area
func (u UnitInfo) Validate() error {
	if u.UnitSpace.IsNegative() {
		return shared.NewValidationError(fmt.Sprintf("unit %s has negative unit space %s", u.UnitNumber, u.UnitSpace))
	}
	return nil
}

// ContractStatus is the lifecycle state of a lease contract
type ContractStatus string

const (
	ContractStatusDraft      ContractStatus = "DRAFT"
	ContractStatusActive     ContractStatus = "ACTIVE"
	ContractStatusExpired    ContractStatus = "EXPIRED"
	ContractStatusTerminated ContractStatus = "TERMINATED"
)

// IsValid returns true if the status is known
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusDraft, ContractStatusActive, ContractStatusExpired, ContractStatusTerminated:
		return true
	}
	return false
}

// Contract is a lease on a single unit
type Contract struct {
	ID         uuid.UUID      `json:"id"`
	UnitID     uuid.UUID      `json:"unit_id"`
	TenantName string         `json:"tenant_name"`
	Status     ContractStatus `json:"status"`
	StartDate  time.Time      `json:"start_date"`
	EndDate    *time.Time     `json:"end_date,omitempty"`
}

// IsActiveAt reports whether the lease is in force at t.
// An ACTIVE contract counts from its start date until its end date (inclusive); open-ended when EndDate is nil.
func (c Contract) IsActiveAt(t time.Time) bool {
	if c.Status != ContractStatusActive {
		return false
	}
	if t.Before(c.StartDate) {
		return false
	}
	if c.EndDate != nil && t.After(*c.EndDate) {
		return false
	}
	return true
}

// BuildingConfig holds the fee configuration used for CAM allocation
type BuildingConfig struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	TotalLeasableArea decimal.Decimal `json:"total_leasable_area"`
	GeneratorFee      decimal.Decimal `json:"generator_fee"`
	TransformerFee    decimal.Decimal `json:"transformer_fee"`
	// AllocatedPools maps an ALLOCATED utility type to the building-wide amount split by area each period
	AllocatedPools map[uuid.UUID]decimal.Decimal `json:"allocated_pools,omitempty"`
}

// Validate checks the configuration is usable for allocation
func (c BuildingConfig) Validate() error {
	if !c.TotalLeasableArea.IsPositive() {
		return shared.NewConfigurationError(
			fmt.Sprintf("building %s has no total leasable area configured", c.ID))
	}
	if c.GeneratorFee.IsNegative() {
		return shared.NewValidationError("generator fee cannot be negative")
	}
	if c.TransformerFee.IsNegative() {
		return shared.NewValidationError("transformer fee cannot be negative")
	}
	for typeID, pool := range c.AllocatedPools {
		if pool.IsNegative() {
			return shared.NewValidationError(fmt.Sprintf("allocated pool for utility type %s cannot be negative", typeID))
		}
	}
	return nil
}

// BillingPeriod is an inclusive date range
type BillingPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewBillingPeriod creates a billing period, rejecting inverted ranges
func NewBillingPeriod(start, end time.Time) (BillingPeriod, error) {
	if start.IsZero() || end.IsZero() {
		return BillingPeriod{}, shared.NewValidationError("billing period start and end are required")
	}
	if end.Before(start) {
		return BillingPeriod{}, shared.NewValidationError("billing period end cannot be before start")
	}
	return BillingPeriod{Start: start, End: end}, nil
}

// Contains reports whether t falls inside the period, both ends inclusive
func (p BillingPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}
