package collaborator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/billing"
	"github.com/propertyhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

type contractDTO struct {
	ID         uuid.UUID `json:"id"`
	UnitID     uuid.UUID `json:"unit_id"`
	TenantName string    `json:"tenant_name"`
	Status     string    `json:"status"`
	StartDate  string    `json:"start_date"`
	EndDate    *string   `json:"end_date"`
}

// ContractClient reads lease contracts from the contract service. It implements billing.ContractStore.
type ContractClient struct {
	*client
}

// NewContractClient creates a contract service client
func NewContractClient(baseURL string, timeout time.Duration, logger *zap.Logger) (*ContractClient, error) {
	c, err := newClient("contract-service", baseURL, timeout, logger)
	if err != nil {
		return nil, err
	}
	return &ContractClient{client: c}, nil
}

// maxContractPages bounds how many pages are requested for one unit
const maxContractPages = 100

// ListContractsByUnit fetches every contract of a unit. The service may answer with
// a bare array or a paged envelope; pages are requested until the reported total is
// collected. An unknown unit has no contracts.
func (c *ContractClient) ListContractsByUnit(ctx context.Context, unitID uuid.UUID) ([]billing.Contract, error) {
	path := fmt.Sprintf("/api/v1/units/%s/contracts", url.PathEscape(unitID.String()))

	var items []contractDTO
	pageSize := 0
	for page := 1; ; page++ {
		if page > maxContractPages {
			return nil, fmt.Errorf("%w: %s: contracts of unit %s span more than %d pages",
				shared.ErrUpstream, c.name, unitID, maxContractPages)
		}

		query := url.Values{"page": {strconv.Itoa(page)}}
		if pageSize > 0 {
			query.Set("page_size", strconv.Itoa(pageSize))
		}

		var resp shared.PagedOrArrayResponse[contractDTO]
		if err := c.do(ctx, http.MethodGet, path+"?"+query.Encode(), nil, &resp); err != nil {
			if shared.ErrorCode(err) != shared.CodeNotFound {
				return nil, err
			}
			if page == 1 {
				return []billing.Contract{}, nil
			}
			return nil, fmt.Errorf("%w: %s: page %d of unit %s contracts disappeared", shared.ErrUpstream, c.name, page, unitID)
		}

		current := resp.Paginated()
		if current.Page > 0 && current.Page != page {
			return nil, fmt.Errorf("%w: %s answered page %d when page %d was requested",
				shared.ErrUpstream, c.name, current.Page, page)
		}
		items = append(items, current.Items...)
		if current.Remaining(len(items)) == 0 {
			break
		}
		if len(current.Items) == 0 {
			return nil, fmt.Errorf("%w: %s: unit %s contracts ended after %d of %d",
				shared.ErrUpstream, c.name, unitID, len(items), current.Total)
		}
		pageSize = current.PageSize
	}

	contracts := make([]billing.Contract, 0, len(items))
	for _, item := range items {
		contract, err := item.toContract(unitID)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, contract)
	}
	return contracts, nil
}

func (d contractDTO) toContract(unitID uuid.UUID) (billing.Contract, error) {
	start, err := parseDate(d.StartDate)
	if err != nil {
		return billing.Contract{}, fmt.Errorf("%w: contract %s start_date: %v", shared.ErrUpstream, d.ID, err)
	}
	contract := billing.Contract{
		ID:         d.ID,
		UnitID:     d.UnitID,
		TenantName: d.TenantName,
		Status:     billing.ContractStatus(d.Status),
		StartDate:  start,
	}
	if contract.UnitID == uuid.Nil {
		contract.UnitID = unitID
	}
	if d.EndDate != nil && *d.EndDate != "" {
		end, err := parseDate(*d.EndDate)
		if err != nil {
			return billing.Contract{}, fmt.Errorf("%w: contract %s end_date: %v", shared.ErrUpstream, d.ID, err)
		}
		contract.EndDate = &end
	}
	return contract, nil
}

// parseDate accepts a calendar date or an RFC 3339 timestamp and returns midnight UTC of that date
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
