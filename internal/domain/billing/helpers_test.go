package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func septemberPeriod(t *testing.T) BillingPeriod {
	t.Helper()
	p, err := NewBillingPeriod(date(2026, time.September, 1), date(2026, time.September, 30))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func electricity(rate string) UtilityTypeDef {
	return UtilityTypeDef{
		ID:                uuid.MustParse("6f1c6a52-0b4e-4c59-9d7b-0d3c8f7a1e01"),
		Name:              "Electricity",
		CalculationMethod: CalculationMethodMetered,
		RatePerUnit:       dec(rate),
		Active:            true,
	}
}
