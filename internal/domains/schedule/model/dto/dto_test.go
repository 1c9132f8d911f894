package dto_test

import (
	"testing"

	"boatbook/internal/domains/schedule/model"
	"boatbook/internal/domains/schedule/model/dto"
	"boatbook/shared/constant"
	"boatbook/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateScheduleRequest_ToModel(t *testing.T) {
	req := dto.CreateScheduleRequest{
		TripID:        "trip-1",
		ScheduledDate: "2026-11-01",
		DepartureTime: "08:30",
		ReturnTime:    "12:15",
		Seats:         8,
	}

	schedule, err := req.ToModel("admin-1")
	require.NoError(t, err)

	assert.NotEmpty(t, schedule.ID)
	assert.Equal(t, "2026-11-01", schedule.ScheduledDate.Format(constant.DateOnlyFormat))
	assert.Equal(t, timezone.Clock("08:30:00"), schedule.DepartureTime)
	assert.Equal(t, timezone.Clock("12:15:00"), schedule.ReturnTime)
	assert.Equal(t, 8, schedule.Capacity)
	assert.Equal(t, 8, schedule.AvailableSeats)
	assert.Equal(t, model.StatusScheduled, schedule.Status)
	assert.Equal(t, "admin-1", schedule.CreatedBy)

	req.ScheduledDate = "2026-13-01"
	_, err = req.ToModel("admin-1")
	assert.Error(t, err)
}

func TestUpdateScheduleRequest_ToUpdateMap(t *testing.T) {
	status := model.StatusCompleted
	capacity := 12

	fields, err := (&dto.UpdateScheduleRequest{Status: &status, Capacity: &capacity}).ToUpdateMap("admin-1")
	require.NoError(t, err)

	assert.Equal(t, model.StatusCompleted, fields[model.FieldStatus])
	assert.NotContains(t, fields, model.FieldCapacity)
	assert.NotContains(t, fields, model.FieldScheduledDate)
	assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])

	_, err = (&dto.UpdateScheduleRequest{}).ToUpdateMap("admin-1")
	assert.Error(t, err)
}
