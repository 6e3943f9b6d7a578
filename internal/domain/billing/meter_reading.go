package billing

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MeterReadingRecord is one reading of a unit's meter for a utility type
type MeterReadingRecord struct {
	ID             uuid.UUID       `json:"id"`
	UnitID         uuid.UUID       `json:"unit_id"`
	UtilityTypeID  uuid.UUID       `json:"utility_type_id"`
	ReadingDate    time.Time       `json:"reading_date"`
	CurrentReading decimal.Decimal `json:"current_reading"`
}

// Validate rejects negative meter values
func (r MeterReadingRecord) Validate() error {
	if r.CurrentReading.IsNegative() {
		return shared.NewValidationError(
			fmt.Sprintf("meter reading %s on %s is negative", r.ID, r.ReadingDate.Format(time.DateOnly)))
	}
	return nil
}

// ConsumptionResult is the consumption derived for one unit and utility type in a period
type ConsumptionResult struct {
	UnitID              uuid.UUID        `json:"unit_id"`
	UtilityTypeID       uuid.UUID        `json:"utility_type_id"`
	CurrentReadingID    uuid.UUID        `json:"current_reading_id"`
	CurrentReadingDate  time.Time        `json:"current_reading_date"`
	CurrentReading      decimal.Decimal  `json:"current_reading"`
	PreviousReading     *decimal.Decimal `json:"previous_reading,omitempty"`
	PreviousReadingDate *time.Time       `json:"previous_reading_date,omitempty"`
	Consumption         decimal.Decimal  `json:"consumption"`
	IsFirstReading      bool             `json:"is_first_reading"`
}

// ResolveConsumption derives consumption from the readings of a single (unit, utility type) pair.
//
// The current reading is the latest one dated inside the period. The previous reading
// is the latest one dated strictly before the current reading. Without a previous
// reading the result is flagged as a first reading and consumption equals the current value.
func ResolveConsumption(unitID, utilityTypeID uuid.UUID, readings []MeterReadingRecord, period BillingPeriod) (ConsumptionResult, error) {
	sorted := make([]MeterReadingRecord, 0, len(readings))
	for _, r := range readings {
		if r.UnitID != unitID || r.UtilityTypeID != utilityTypeID {
			continue
		}
		sorted = append(sorted, r)
	}
	// Newest first; same-day readings are ordered by id so the pick is stable.
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].ReadingDate.Equal(sorted[j].ReadingDate) {
			return sorted[i].ReadingDate.After(sorted[j].ReadingDate)
		}
		return sorted[i].ID.String() > sorted[j].ID.String()
	})

	currentIdx := -1
	for i, r := range sorted {
		if period.Contains(r.ReadingDate) {
			currentIdx = i
			break
		}
	}
	if currentIdx < 0 {
		return ConsumptionResult{}, shared.NewNotFoundError(fmt.Sprintf(
			"no meter reading for unit %s and utility type %s between %s and %s",
			unitID, utilityTypeID, period.Start.Format(time.DateOnly), period.End.Format(time.DateOnly)))
	}

	current := sorted[currentIdx]
	if err := current.Validate(); err != nil {
		return ConsumptionResult{}, err
	}

	result := ConsumptionResult{
		UnitID:             unitID,
		UtilityTypeID:      utilityTypeID,
		CurrentReadingID:   current.ID,
		CurrentReadingDate: current.ReadingDate,
		CurrentReading:     current.CurrentReading,
	}

	for _, r := range sorted[currentIdx+1:] {
		if !r.ReadingDate.Before(current.ReadingDate) {
			continue
		}
		if err := r.Validate(); err != nil {
			return ConsumptionResult{}, err
		}
		prev := r.CurrentReading
		prevDate := r.ReadingDate
		result.PreviousReading = &prev
		result.PreviousReadingDate = &prevDate
		break
	}

	if result.PreviousReading == nil {
		result.IsFirstReading = true
		result.Consumption = current.CurrentReading
		return result, nil
	}

	if current.CurrentReading.LessThan(*result.PreviousReading) {
		return ConsumptionResult{}, shared.NewValidationError(fmt.Sprintf(
			"current reading %s is below previous reading %s for unit %s",
			current.CurrentReading, *result.PreviousReading, unitID))
	}
	result.Consumption = current.CurrentReading.Sub(*result.PreviousReading)
	return result, nil
}
