package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/billing"
	"github.com/stretchr/testify/mock"
)

// mockBuildingStore is a mock implementation of billing.BuildingConfigStore
type mockBuildingStore struct {
	mock.Mock
}

func (m *mockBuildingStore) GetBuildingConfig(ctx context.Context, buildingID uuid.UUID) (*billing.BuildingConfig, error) {
	args := m.Called(ctx, buildingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BuildingConfig), args.Error(1)
}

// mockUnitStore is a mock implementation of billing.UnitStore
type mockUnitStore struct {
	mock.Mock
}

func (m *mockUnitStore) ListUnitsByBuilding(ctx context.Context, buildingID uuid.UUID) ([]billing.Unit, error) {
	args := m.Called(ctx, buildingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Unit), args.Error(1)
}

func (m *mockUnitStore) GetUnit(ctx context.Context, buildingID, unitID uuid.UUID) (*billing.Unit, error) {
	args := m.Called(ctx, buildingID, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Unit), args.Error(1)
}

// mockContractStore is a mock implementation of billing.ContractStore
type mockContractStore struct {
	mock.Mock
}

func (m *mockContractStore) ListContractsByUnit(ctx context.Context, unitID uuid.UUID) ([]billing.Contract, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Contract), args.Error(1)
}

// mockReadingStore is a mock implementation of billing.MeterReadingStore
type mockReadingStore struct {
	mock.Mock
}

func (m *mockReadingStore) ListReadings(ctx context.Context, unitID, utilityTypeID uuid.UUID, until time.Time) ([]billing.MeterReadingRecord, error) {
	args := m.Called(ctx, unitID, utilityTypeID, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.MeterReadingRecord), args.Error(1)
}

// mockCatalog is a mock implementation of billing.UtilityTypeCatalog
type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) ListUtilityTypes(ctx context.Context) ([]billing.UtilityTypeDef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.UtilityTypeDef), args.Error(1)
}

// mockGateway is a mock implementation of billing.InvoiceGateway
type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) SubmitInvoice(ctx context.Context, req *billing.InvoiceRequest) (*billing.InvoiceReceipt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.InvoiceReceipt), args.Error(1)
}
