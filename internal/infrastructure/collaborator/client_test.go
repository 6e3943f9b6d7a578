package collaborator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/billing"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/propertyhub/backend/internal/domain/shared/valueobject"
	"github.com/propertyhub/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewContractClient_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "/relative/path"} {
		_, err := NewContractClient(raw, time.Second, zaptest.NewLogger(t))
		assert.Error(t, err, raw)
	}
}

func TestContractClient_ListContractsByUnit(t *testing.T) {
	unitID := uuid.MustParse("0b7e2f1c-5d47-4c1c-9a2e-3f1d6f0c9a10")
	contractID := uuid.MustParse("a3c1e8d2-6b5f-4e21-8f8a-0c2d9b7e4f11")

	tests := []struct {
		name string
		body string
	}{
		{
			name: "bare array",
			body: `[{"id":"` + contractID.String() + `","unit_id":"` + unitID.String() + `","tenant_name":"Golden Tea House","status":"ACTIVE","start_date":"2026-01-01","end_date":null}]`,
		},
		{
			name: "paged envelope",
			body: `{"items":[{"id":"` + contractID.String() + `","tenant_name":"Golden Tea House","status":"ACTIVE","start_date":"2026-01-01T00:00:00Z"}],"total":1,"page":1,"page_size":20}`,
		},
		{
			name: "data envelope",
			body: `{"data":[{"id":"` + contractID.String() + `","unit_id":"` + unitID.String() + `","tenant_name":"Golden Tea House","status":"ACTIVE","start_date":"2026-01-01","end_date":""}],"meta":{"total":1,"page":1,"page_size":20}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/api/v1/units/"+unitID.String()+"/contracts", r.URL.Path)
				assert.Equal(t, "req-42", r.Header.Get(logger.RequestIDHeader))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := NewContractClient(srv.URL+"/", time.Second, zaptest.NewLogger(t))
			require.NoError(t, err)

			ctx := logger.WithRequestID(context.Background(), "req-42")
			contracts, err := c.ListContractsByUnit(ctx, unitID)
			require.NoError(t, err)
			require.Len(t, contracts, 1)
			assert.Equal(t, contractID, contracts[0].ID)
			assert.Equal(t, unitID, contracts[0].UnitID)
			assert.Equal(t, "Golden Tea House", contracts[0].TenantName)
			assert.Equal(t, billing.ContractStatusActive, contracts[0].Status)
			assert.True(t, contracts[0].StartDate.Equal(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
			assert.Nil(t, contracts[0].EndDate)
		})
	}
}

func TestContractClient_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		empty    bool
	}{
		{name: "unknown unit has no contracts", status: http.StatusNotFound, empty: true},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":{"code":"INTERNAL","message":"database down"}}`, wantCode: shared.CodeUpstream},
		{name: "undecodable body", status: http.StatusOK, body: `"nope"`, wantCode: shared.CodeUpstream},
		{name: "bad date", status: http.StatusOK, body: `[{"id":"` + uuid.NewString() + `","status":"ACTIVE","start_date":"01/01/2026"}]`, wantCode: shared.CodeUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := NewContractClient(srv.URL, time.Second, zaptest.NewLogger(t))
			require.NoError(t, err)

			contracts, err := c.ListContractsByUnit(context.Background(), uuid.New())
			if tt.empty {
				require.NoError(t, err)
				assert.Empty(t, contracts)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, shared.ErrorCode(err))
		})
	}
}

func TestContractClient_ListContractsByUnit_FollowsPages(t *testing.T) {
	unitID := uuid.MustParse("0b7e2f1c-5d47-4c1c-9a2e-3f1d6f0c9a10")
	expiredID := uuid.MustParse("5e0d9c7a-1b2f-4f3e-8a6d-2c4b6e8f0a12")
	activeID := uuid.MustParse("7f1e0d8b-2c3a-4b5f-9e7d-3d5c7f9a1b23")

	pages := map[string]string{
		"1": `{"items":[{"id":"` + expiredID.String() + `","tenant_name":"Old Noodle Bar","status":"EXPIRED","start_date":"2024-01-01","end_date":"2025-12-31"}],"total":2,"page":1,"page_size":1}`,
		"2": `{"items":[{"id":"` + activeID.String() + `","tenant_name":"Golden Tea House","status":"ACTIVE","start_date":"2026-01-01"}],"total":2,"page":2,"page_size":1}`,
	}

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		page := r.URL.Query().Get("page")
		if n > 1 {
			assert.Equal(t, "1", r.URL.Query().Get("page_size"))
		}
		body, ok := pages[page]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c, err := NewContractClient(srv.URL, time.Second, zaptest.NewLogger(t))
	require.NoError(t, err)

	contracts, err := c.ListContractsByUnit(context.Background(), unitID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	require.Len(t, contracts, 2)
	assert.Equal(t, expiredID, contracts[0].ID)
	assert.Equal(t, activeID, contracts[1].ID)
	assert.Equal(t, billing.ContractStatusActive, contracts[1].Status)
}

func TestContractClient_ListContractsByUnit_IncompletePages(t *testing.T) {
	first := `{"items":[{"id":"` + uuid.NewString() + `","status":"ACTIVE","start_date":"2026-01-01"}],"total":3,"page":1,"page_size":1}`

	tests := []struct {
		name  string
		later func(w http.ResponseWriter)
	}{
		{
			name:  "empty page before total",
			later: func(w http.ResponseWriter) { _, _ = w.Write([]byte(`{"items":[],"total":3,"page":2,"page_size":1}`)) },
		},
		{
			name:  "page number ignored",
			later: func(w http.ResponseWriter) { _, _ = w.Write([]byte(first)) },
		},
		{
			name:  "later page missing",
			later: func(w http.ResponseWriter) { w.WriteHeader(http.StatusNotFound) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("page") == "1" {
					_, _ = w.Write([]byte(first))
					return
				}
				tt.later(w)
			}))
			defer srv.Close()

			c, err := NewContractClient(srv.URL, time.Second, zaptest.NewLogger(t))
			require.NoError(t, err)

			contracts, err := c.ListContractsByUnit(context.Background(), uuid.New())
			require.Error(t, err)
			assert.Nil(t, contracts)
			assert.ErrorIs(t, err, shared.ErrUpstream)
		})
	}
}

func TestContractClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewContractClient(base, 200*time.Millisecond, zaptest.NewLogger(t))
	require.NoError(t, err)
	_, err = c.ListContractsByUnit(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrUpstream)
}

func sampleInvoiceRequest() *billing.InvoiceRequest {
	amount := valueobject.MustMoney(decimal.NewFromInt(60000), "MMK")
	return &billing.InvoiceRequest{
		BuildingID: uuid.New(),
		UnitID:     uuid.New(),
		UnitNumber: "A-101",
		DueDate:    time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC),
		Items: []billing.InvoiceItem{{
			Description: "Electricity",
			Method:      billing.CalculationMethodMetered,
			Quantity:    decimal.NewFromInt(400),
			UnitPrice:   decimal.NewFromInt(150),
			Amount:      amount,
		}},
		Subtotal:  amount,
		TaxAmount: valueobject.Zero("MMK"),
		Total:     amount,
	}
}

func TestInvoiceClient_SubmitInvoice(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bare receipt", body: `{"invoice_id":"inv-1","invoice_number":"INV-2026-0001","status":"DRAFT"}`},
		{name: "data envelope", body: `{"success":true,"data":{"invoice_id":"inv-1","invoice_number":"INV-2026-0001","status":"DRAFT"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := sampleInvoiceRequest()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/v1/invoices", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var got map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				assert.Equal(t, "A-101", got["unit_number"])
				assert.Equal(t, req.UnitID.String(), got["unit_id"])

				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := NewInvoiceClient(srv.URL, time.Second, zaptest.NewLogger(t))
			require.NoError(t, err)

			receipt, err := c.SubmitInvoice(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, "inv-1", receipt.InvoiceID)
			assert.Equal(t, "INV-2026-0001", receipt.InvoiceNumber)
			assert.Equal(t, "DRAFT", receipt.Status)
		})
	}
}

func TestInvoiceClient_Failures(t *testing.T) {
	t.Run("rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":{"code":"VALIDATION","message":"due date in the past"}}`))
		}))
		defer srv.Close()

		c, err := NewInvoiceClient(srv.URL, time.Second, zaptest.NewLogger(t))
		require.NoError(t, err)
		_, err = c.SubmitInvoice(context.Background(), sampleInvoiceRequest())
		require.ErrorIs(t, err, shared.ErrUpstream)
		assert.Contains(t, err.Error(), "due date in the past")
	})

	t.Run("missing invoice id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		c, err := NewInvoiceClient(srv.URL, time.Second, zaptest.NewLogger(t))
		require.NoError(t, err)
		_, err = c.SubmitInvoice(context.Background(), sampleInvoiceRequest())
		assert.ErrorIs(t, err, shared.ErrUpstream)
	})

	t.Run("nil request", func(t *testing.T) {
		c, err := NewInvoiceClient("http://invoice.local", time.Second, zaptest.NewLogger(t))
		require.NoError(t, err)
		_, err = c.SubmitInvoice(context.Background(), nil)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("negative total is not sent", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))
		defer srv.Close()

		req := sampleInvoiceRequest()
		req.Total = valueobject.MustMoney(decimal.NewFromInt(-1), "MMK")

		c, err := NewInvoiceClient(srv.URL, time.Second, zaptest.NewLogger(t))
		require.NoError(t, err)
		_, err = c.SubmitInvoice(context.Background(), req)
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Zero(t, calls.Load())
	})
}
