package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var (
	buildingID    = uuid.MustParse("7d2f7a1e-1111-4c3b-8e0a-6a6b9d2f0001")
	electricityID = uuid.MustParse("6f1c6a52-2222-4d8e-9b1a-1f5e7c3d0002")
	serviceFeeID  = uuid.MustParse("6f1c6a52-3333-4d8e-9b1a-1f5e7c3d0003")
	waterID       = uuid.MustParse("6f1c6a52-4444-4d8e-9b1a-1f5e7c3d0004")

	periodStart = time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

// scenarioBuilding is 5000 sqm with generator 500000 and transformer 300000
func scenarioBuilding() *billing.BuildingConfig {
	return &billing.BuildingConfig{
		ID:                buildingID,
		Name:              "Sule Square",
		TotalLeasableArea: dec("5000"),
		GeneratorFee:      dec("500000"),
		TransformerFee:    dec("300000"),
	}
}

func unit(number, space string, hasMeter bool) billing.Unit {
	return billing.Unit{
		ID:         uuid.NewSHA1(uuid.NameSpaceOID, []byte(number)),
		BuildingID: buildingID,
		UnitNumber: number,
		UnitSpace:  dec(space),
		HasMeter:   hasMeter,
	}
}

func activeContract(u billing.Unit, tenant string, start time.Time) billing.Contract {
	return billing.Contract{
		ID:         uuid.New(),
		UnitID:     u.ID,
		TenantName: tenant,
		Status:     billing.ContractStatusActive,
		StartDate:  start,
	}
}

func electricity() billing.UtilityTypeDef {
	return billing.UtilityTypeDef{
		ID:                electricityID,
		Name:              "Electricity",
		CalculationMethod: billing.CalculationMethodMetered,
		RatePerUnit:       dec("500"),
		Active:            true,
	}
}

func reading(u billing.Unit, date time.Time, value string) billing.MeterReadingRecord {
	return billing.MeterReadingRecord{
		ID:             uuid.New(),
		UnitID:         u.ID,
		UtilityTypeID:  electricityID,
		ReadingDate:    date,
		CurrentReading: dec(value),
	}
}

type fixture struct {
	buildings *mockBuildingStore
	units     *mockUnitStore
	contracts *mockContractStore
	readings  *mockReadingStore
	catalog   *mockCatalog
	service   *BillingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		buildings: new(mockBuildingStore),
		units:     new(mockUnitStore),
		contracts: new(mockContractStore),
		readings:  new(mockReadingStore),
		catalog:   new(mockCatalog),
	}
	f.service = NewBillingService(Stores{
		Buildings: f.buildings,
		Units:     f.units,
		Contracts: f.contracts,
		Readings:  f.readings,
		Catalog:   f.catalog,
	}, decimal.Zero, 4, zap.NewNop())
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.buildings.AssertExpectations(t)
	f.units.AssertExpectations(t)
	f.contracts.AssertExpectations(t)
	f.readings.AssertExpectations(t)
	f.catalog.AssertExpectations(t)
}
