package collaborator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/propertyhub/backend/internal/domain/billing"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/propertyhub/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// receiptEnvelope accepts both {"data": {...}} and a bare receipt object
type receiptEnvelope struct {
	Data *billing.InvoiceReceipt `json:"data"`
	billing.InvoiceReceipt
}

// InvoiceClient submits invoice requests to the invoice-generation service. It implements billing.InvoiceGateway.
type InvoiceClient struct {
	*client
}

// NewInvoiceClient creates an invoice service client
func NewInvoiceClient(baseURL string, timeout time.Duration, logger *zap.Logger) (*InvoiceClient, error) {
	c, err := newClient("invoice-service", baseURL, timeout, logger)
	if err != nil {
		return nil, err
	}
	return &InvoiceClient{client: c}, nil
}

// SubmitInvoice posts one invoice request and returns the service's receipt
func (c *InvoiceClient) SubmitInvoice(ctx context.Context, req *billing.InvoiceRequest) (*billing.InvoiceReceipt, error) {
	if req == nil {
		return nil, shared.NewValidationError("invoice request is required")
	}
	if req.Total.IsNegative() {
		return nil, shared.NewValidationError(fmt.Sprintf("invoice for unit %s has a negative total of %s", req.UnitNumber, req.Total))
	}

	logger.WithLogger(ctx, c.logger).Debug("Submitting invoice",
		zap.String("unit_id", req.UnitID.String()),
		zap.String("currency", string(req.Total.Currency())),
		zap.String("total", req.Total.Amount().StringFixed(2)),
		zap.Int("items", len(req.Items)),
	)

	var env receiptEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/v1/invoices", req, &env); err != nil {
		return nil, err
	}

	receipt := env.InvoiceReceipt
	if env.Data != nil {
		receipt = *env.Data
	}
	if receipt.InvoiceID == "" {
		return nil, shared.NewDomainError(shared.CodeUpstream, "invoice-service: response carries no invoice id")
	}
	return &receipt, nil
}
