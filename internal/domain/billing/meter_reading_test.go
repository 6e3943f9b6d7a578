package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reading(unitID, typeID uuid.UUID, d time.Time, value string) MeterReadingRecord {
	return MeterReadingRecord{
		ID:             uuid.New(),
		UnitID:         unitID,
		UtilityTypeID:  typeID,
		ReadingDate:    d,
		CurrentReading: dec(value),
	}
}

func TestResolveConsumption(t *testing.T) {
	unitID := uuid.New()
	typeID := uuid.New()
	period := septemberPeriod(t)

	t.Run("first ever reading uses the current value as consumption", func(t *testing.T) {
		readings := []MeterReadingRecord{reading(unitID, typeID, date(2026, time.September, 28), "120")}

		result, err := ResolveConsumption(unitID, typeID, readings, period)
		require.NoError(t, err)
		assert.True(t, result.IsFirstReading)
		assert.Nil(t, result.PreviousReading)
		assertDecimal(t, "120", result.Consumption)
	})

	t.Run("consumption is current minus latest prior reading", func(t *testing.T) {
		readings := []MeterReadingRecord{
			reading(unitID, typeID, date(2026, time.July, 30), "400"),
			reading(unitID, typeID, date(2026, time.September, 29), "560"),
			reading(unitID, typeID, date(2026, time.August, 30), "500"),
		}

		result, err := ResolveConsumption(unitID, typeID, readings, period)
		require.NoError(t, err)
		assert.False(t, result.IsFirstReading)
		require.NotNil(t, result.PreviousReading)
		assertDecimal(t, "500", *result.PreviousReading)
		assertDecimal(t, "60", result.Consumption)
		assert.Equal(t, date(2026, time.September, 29), result.CurrentReadingDate)
	})

	t.Run("latest reading in the period is current, earlier in-period reading is previous", func(t *testing.T) {
		readings := []MeterReadingRecord{
			reading(unitID, typeID, date(2026, time.September, 2), "100"),
			reading(unitID, typeID, date(2026, time.September, 30), "130"),
		}

		result, err := ResolveConsumption(unitID, typeID, readings, period)
		require.NoError(t, err)
		assertDecimal(t, "30", result.Consumption)
	})

	t.Run("readings after the period are ignored", func(t *testing.T) {
		readings := []MeterReadingRecord{
			reading(unitID, typeID, date(2026, time.August, 31), "10"),
			reading(unitID, typeID, date(2026, time.September, 15), "25"),
			reading(unitID, typeID, date(2026, time.October, 15), "90"),
		}

		result, err := ResolveConsumption(unitID, typeID, readings, period)
		require.NoError(t, err)
		assertDecimal(t, "15", result.Consumption)
	})

	t.Run("readings of other units or types are ignored", func(t *testing.T) {
		readings := []MeterReadingRecord{
			reading(uuid.New(), typeID, date(2026, time.August, 31), "1000"),
			reading(unitID, uuid.New(), date(2026, time.August, 31), "1000"),
			reading(unitID, typeID, date(2026, time.September, 15), "25"),
		}

		result, err := ResolveConsumption(unitID, typeID, readings, period)
		require.NoError(t, err)
		assert.True(t, result.IsFirstReading)
	})

	t.Run("current below previous is a validation error", func(t *testing.T) {
		readings := []MeterReadingRecord{
			reading(unitID, typeID, date(2026, time.August, 31), "80"),
			reading(unitID, typeID, date(2026, time.September, 30), "60"),
		}

		_, err := ResolveConsumption(unitID, typeID, readings, period)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("no reading in the period is not found", func(t *testing.T) {
		readings := []MeterReadingRecord{reading(unitID, typeID, date(2026, time.August, 31), "80")}

		_, err := ResolveConsumption(unitID, typeID, readings, period)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("negative meter value is a validation error", func(t *testing.T) {
		readings := []MeterReadingRecord{reading(unitID, typeID, date(2026, time.September, 3), "-5")}

		_, err := ResolveConsumption(unitID, typeID, readings, period)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}
