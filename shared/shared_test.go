package shared_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"boatbook/shared"
	cacheMocks "boatbook/shared/cache/mocks"
	"boatbook/shared/constant"
	"boatbook/shared/dto"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{name: "empty string returns nil", input: "", expected: nil},
		{name: "true", input: "true", expected: boolPtr(true)},
		{name: "zero", input: "0", expected: boolPtr(false)},
		{name: "upper case", input: "FALSE", expected: boolPtr(false)},
		{name: "invalid string returns nil", input: "sometimes", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total", total: 0, limit: 10, expected: 1},
		{name: "negative limit", total: 100, limit: -5, expected: 1},
		{name: "exact division", total: 100, limit: 10, expected: 10},
		{name: "with remainder", total: 101, limit: 10, expected: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type update struct {
		Status   string `db:"status"`
		Seats    *int   `db:"available_seats"`
		Ignored  string `db:"-"`
		Untagged string
		Empty    string `db:"return_time"`
	}

	zero := 0
	result := shared.TransformFields(update{Status: "confirmed", Seats: &zero, Ignored: "x", Untagged: "y"}, "admin-1")

	assert.Equal(t, "confirmed", result["status"])
	assert.Equal(t, &zero, result["available_seats"])
	assert.NotContains(t, result, "-")
	assert.NotContains(t, result, "return_time")
	assert.Equal(t, "admin-1", result[constant.FieldModifiedBy])
	assert.IsType(t, time.Time{}, result[constant.FieldModifiedAt])
	assert.Len(t, result, 4)
}

func TestFilterByID(t *testing.T) {
	result := shared.FilterByID("550e8400-e29b-41d4-a716-446655440000", "id", "bookings")

	assert.Equal(t, dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    "id",
				Value:    "550e8400-e29b-41d4-a716-446655440000",
				Operator: dto.FilterOperatorEq,
				Table:    "bookings",
			},
		},
	}, result)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "schedule:get", shared.BuildCacheKey("schedule:get"))
	assert.Equal(t, "schedule:get:abc", shared.BuildCacheKey("schedule:get", "abc"))
	assert.Equal(t, "limiter:1.2.3.4:curl", shared.BuildCacheKey("limiter", "1.2.3.4", "curl"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	filter := func(value string) dto.FilterGroup {
		return dto.FilterGroup{
			Operator: dto.FilterGroupOperatorAnd,
			Filters: []any{
				dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: value, Table: "trip_schedules"},
			},
		}
	}

	first := shared.BuildCacheKeyWithQuery("schedule:gets", params, filter("scheduled"))
	again := shared.BuildCacheKeyWithQuery("schedule:gets", params, filter("scheduled"))
	other := shared.BuildCacheKeyWithQuery("schedule:gets", params, filter("cancelled"))
	nextPage := shared.BuildCacheKeyWithQuery("schedule:gets", dto.QueryParams{Page: 2, Limit: 10}, filter("scheduled"))

	assert.Equal(t, first, again)
	assert.NotEqual(t, first, other)
	assert.NotEqual(t, first, nextPage)
	assert.Contains(t, first, "schedule:gets:")
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "schedule:gets:*").Return(nil)
	mockCache.EXPECT().Clear(gomock.Any(), "schedule:get:*").Return(errors.New("redis down"))

	shared.InvalidateCaches(context.Background(), mockCache, "schedule:gets")
	shared.InvalidateCaches(context.Background(), mockCache, "schedule:get")
}

func boolPtr(b bool) *bool {
	return &b
}
