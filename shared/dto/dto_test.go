package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"boatbook/shared/constant"
	"boatbook/shared/dto"
	"boatbook/shared/model"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)

	metadata := &dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	})

	assert.NotEmpty(t, metadata.CreatedAt)
	assert.NotEmpty(t, metadata.ModifiedAt)
	assert.Equal(t, "creator", metadata.CreatedBy)
	assert.Equal(t, "modifier", metadata.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:     "all parameters",
			query:    "page=2&limit=20&sort_by=scheduled_date&sort_dir=asc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "scheduled_date", SortDir: "ASC"},
		},
		{
			name:           "defaults applied",
			query:          "",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:           "invalid values fall back to defaults",
			query:          "page=-1&limit=abc&sort_dir=sideways",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "no defaults",
			query:    "",
			expected: dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/schedules?"+tt.query, nil)

			params := dto.QueryParams{}
			params.FromRequest(req, tt.defaultRequest)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestQueryParams_Sanitize(t *testing.T) {
	params := dto.QueryParams{SortBy: "price; DROP TABLE trips"}
	params.Sanitize("trips", "title", "price")

	assert.Equal(t, "trips.created_at", params.SortBy)
	assert.Equal(t, dto.SortDirDesc, params.SortDir)

	params = dto.QueryParams{SortBy: "price", SortDir: dto.SortDirAsc}
	params.Sanitize("trips", "title", "price")

	assert.Equal(t, "trips.price", params.SortBy)
	assert.Equal(t, dto.SortDirAsc, params.SortDir)
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "schedule_id", Operator: dto.FilterOperatorEq, Value: "s-1", Table: "bookings"},
			dto.Filter{Field: "booking_status", ArgName: "excluded_status", Operator: dto.FilterOperatorNotEq, Value: "cancelled", Table: "bookings"},
			dto.Filter{Field: "id", Operator: dto.FilterOperatorIn, Value: []string{"a", "b"}, Table: "bookings"},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(bookings.schedule_id = :schedule_id AND bookings.booking_status != :excluded_status AND bookings.id IN (:id_0, :id_1) )", where)
	assert.Equal(t, map[string]any{
		"schedule_id":     "s-1",
		"excluded_status": "cancelled",
		"id_0":            "a",
		"id_1":            "b",
	}, args)
}

func TestFilterGroup_Empty(t *testing.T) {
	group := dto.FilterGroup{}

	where, args := group.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}
