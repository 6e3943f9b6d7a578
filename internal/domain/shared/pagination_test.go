package shared

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contractRow struct {
	ID     string `json:"id"`
	Tenant string `json:"tenant"`
}

func TestPagedOrArrayResponse_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantShape ResponseShape
		wantIDs   []string
		wantTotal int64
	}{
		{
			name:      "bare array",
			payload:   `[{"id":"c1","tenant":"Aye"},{"id":"c2","tenant":"Min"}]`,
			wantShape: ResponseShapeArray,
			wantIDs:   []string{"c1", "c2"},
			wantTotal: 2,
		},
		{
			name:      "paginated object",
			payload:   `{"items":[{"id":"c1"}],"total":7,"page":1,"page_size":1}`,
			wantShape: ResponseShapePaged,
			wantIDs:   []string{"c1"},
			wantTotal: 7,
		},
		{
			name:      "envelope around array with meta",
			payload:   `{"success":true,"data":[{"id":"c3"}],"meta":{"total":12,"page":2,"page_size":1}}`,
			wantShape: ResponseShapePaged,
			wantIDs:   []string{"c3"},
			wantTotal: 12,
		},
		{
			name:      "envelope around paginated object",
			payload:   `{"success":true,"data":{"items":[{"id":"c4"},{"id":"c5"}],"total":2}}`,
			wantShape: ResponseShapePaged,
			wantIDs:   []string{"c4", "c5"},
			wantTotal: 2,
		},
		{
			name:      "envelope around bare array without meta",
			payload:   `{"data":[]}`,
			wantShape: ResponseShapeArray,
			wantIDs:   []string{},
			wantTotal: 0,
		},
		{
			name:      "null",
			payload:   `null`,
			wantShape: ResponseShapeArray,
			wantIDs:   []string{},
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp PagedOrArrayResponse[contractRow]
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &resp))

			assert.Equal(t, tt.wantShape, resp.Shape)
			assert.Equal(t, tt.wantTotal, resp.Total)

			ids := make([]string, 0)
			for _, row := range resp.Unwrap() {
				ids = append(ids, row.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestPagedOrArrayResponse_Rejects(t *testing.T) {
	for _, payload := range []string{`{"success":true}`, `"text"`, `42`} {
		var resp PagedOrArrayResponse[contractRow]
		assert.Error(t, json.Unmarshal([]byte(payload), &resp), payload)
	}
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2, 3}, 25, 1, 10)
	assert.Equal(t, 3, p.TotalPages)

	empty := NewPaginated([]int{}, 0, 1, 0)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestPagedOrArrayResponse_Paginated(t *testing.T) {
	tests := []struct {
		name          string
		payload       string
		wantTotal     int64
		wantPage      int
		wantRemaining int64
	}{
		{name: "bare array is complete", payload: `[{"id":"c1"},{"id":"c2"}]`, wantTotal: 2, wantPage: 1, wantRemaining: 0},
		{name: "first of two pages", payload: `{"items":[{"id":"c1"}],"total":2,"page":1,"page_size":1}`, wantTotal: 2, wantPage: 1, wantRemaining: 1},
		{name: "single full page", payload: `{"items":[{"id":"c1"}],"total":1}`, wantTotal: 1, wantPage: 0, wantRemaining: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp PagedOrArrayResponse[contractRow]
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &resp))

			page := resp.Paginated()
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantRemaining, page.Remaining(len(page.Items)))
		})
	}
}

func TestPaginated_Remaining(t *testing.T) {
	p := NewPaginated([]int{1}, 3, 1, 1)
	assert.Equal(t, int64(2), p.Remaining(1))
	assert.Equal(t, int64(0), p.Remaining(3))
	assert.Equal(t, int64(0), p.Remaining(5))
}
