package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/billing"
)

// ConsumptionResolver loads meter readings and derives a unit's consumption for a period
type ConsumptionResolver struct {
	readings billing.MeterReadingStore
}

// NewConsumptionResolver creates a new consumption resolver
func NewConsumptionResolver(readings billing.MeterReadingStore) *ConsumptionResolver {
	return &ConsumptionResolver{readings: readings}
}

// Resolve returns the consumption of one unit and utility type in period.
// Readings already seen in this run are skipped; seen may be nil.
func (r *ConsumptionResolver) Resolve(
	ctx context.Context,
	unitID, utilityTypeID uuid.UUID,
	period billing.BillingPeriod,
	seen *billing.SeenSet,
) (billing.ConsumptionResult, error) {
	readings, err := r.readings.ListReadings(ctx, unitID, utilityTypeID, period.End)
	if err != nil {
		return billing.ConsumptionResult{}, err
	}
	return billing.ResolveConsumption(unitID, utilityTypeID, billing.DedupeReadings(seen, readings), period)
}
