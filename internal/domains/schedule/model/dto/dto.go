package dto

import (
	"errors"

	"boatbook/internal/domains/schedule/model"
	"boatbook/shared"
	"boatbook/shared/constant"
	gDto "boatbook/shared/dto"
	gModel "boatbook/shared/model"
	"boatbook/shared/timezone"

	"github.com/google/uuid"
)

var errEmptyUpdate = errors.New("at least one field must be provided")

type CreateScheduleRequest struct {
	TripID        string `json:"trip_id"         validate:"required,uuid"`
	ScheduledDate string `json:"scheduled_date"  validate:"required,date"`
	DepartureTime string `json:"departure_time"  validate:"required,clock"`
	ReturnTime    string `json:"return_time"     validate:"omitempty,clock"`
	Seats         int    `json:"available_seats" validate:"required,gt=0"`
}

// ToModel opens the schedule with every seat free.
func (c *CreateScheduleRequest) ToModel(user string) (model.Schedule, error) {
	date, err := timezone.Parse(constant.DateOnlyFormat, c.ScheduledDate)
	if err != nil {
		return model.Schedule{}, err
	}

	departure, err := timezone.ParseClock(c.DepartureTime)
	if err != nil {
		return model.Schedule{}, err
	}

	var ret timezone.Clock
	if c.ReturnTime != constant.Empty {
		if ret, err = timezone.ParseClock(c.ReturnTime); err != nil {
			return model.Schedule{}, err
		}
	}

	return model.Schedule{
		ID:             uuid.NewString(),
		TripID:         c.TripID,
		ScheduledDate:  date,
		DepartureTime:  departure,
		ReturnTime:     ret,
		Capacity:       c.Seats,
		AvailableSeats: c.Seats,
		Status:         model.StatusScheduled,
		Metadata:       gModel.NewMetadata(user, timezone.Now()),
	}, nil
}

type UpdateScheduleRequest struct {
	ScheduledDate *string `json:"scheduled_date,omitempty" validate:"omitempty,date"`
	DepartureTime *string `json:"departure_time,omitempty" validate:"omitempty,clock"`
	ReturnTime    *string `json:"return_time,omitempty"    validate:"omitempty,clock"`
	Capacity      *int    `json:"capacity,omitempty"       validate:"omitempty,gt=0"`
	Status        *string `json:"status,omitempty"         validate:"omitempty,oneof=scheduled confirmed cancelled completed"`
}

// ToUpdateMap returns the column changes other than capacity, which is a ledger operation.
func (u *UpdateScheduleRequest) ToUpdateMap(user string) (map[string]any, error) {
	if u.ScheduledDate == nil && u.DepartureTime == nil && u.ReturnTime == nil && u.Capacity == nil && u.Status == nil {
		return nil, errEmptyUpdate
	}

	fields := struct {
		ScheduledDate any `db:"scheduled_date"`
		DepartureTime any `db:"departure_time"`
		ReturnTime    any `db:"return_time"`
		Status        any `db:"status"`
	}{}

	if u.ScheduledDate != nil {
		date, err := timezone.Parse(constant.DateOnlyFormat, *u.ScheduledDate)
		if err != nil {
			return nil, err
		}

		fields.ScheduledDate = date
	}

	if u.DepartureTime != nil {
		clock, err := timezone.ParseClock(*u.DepartureTime)
		if err != nil {
			return nil, err
		}

		fields.DepartureTime = clock
	}

	if u.ReturnTime != nil {
		clock, err := timezone.ParseClock(*u.ReturnTime)
		if err != nil {
			return nil, err
		}

		fields.ReturnTime = clock
	}

	if u.Status != nil {
		fields.Status = *u.Status
	}

	return shared.TransformFields(fields, user), nil
}

type AssignRequest struct {
	BoatID  string `json:"boat_id"  validate:"omitempty,uuid"`
	GuideID string `json:"guide_id" validate:"omitempty,uuid"`
}

func (a *AssignRequest) Empty() bool {
	return a.BoatID == constant.Empty && a.GuideID == constant.Empty
}

type ScheduleResponse struct {
	ID             string  `json:"id"`
	TripID         string  `json:"trip_id"`
	TripTitle      string  `json:"trip_title"`
	Price          float64 `json:"price"`
	ScheduledDate  string  `json:"scheduled_date"`
	DepartureTime  string  `json:"departure_time"`
	ReturnTime     string  `json:"return_time,omitempty"`
	BoatID         *string `json:"boat_id"`
	GuideID        *string `json:"guide_id"`
	Capacity       int     `json:"capacity"`
	AvailableSeats int     `json:"available_seats"`
	Status         string  `json:"status"`
	gDto.Metadata
}

func (r *ScheduleResponse) FromModel(model model.Schedule) {
	r.ID = model.ID
	r.TripID = model.TripID
	r.TripTitle = model.TripTitle
	r.Price = model.TripPrice
	r.ScheduledDate = model.ScheduledDate.Format(constant.DateOnlyFormat)
	r.DepartureTime = model.DepartureTime.Short()
	r.ReturnTime = model.ReturnTime.Short()
	r.BoatID = model.BoatID
	r.GuideID = model.GuideID
	r.Capacity = model.Capacity
	r.AvailableSeats = model.AvailableSeats
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetSchedulesResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetSchedulesResponse) FromModels(models []model.Schedule, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Schedules = make([]ScheduleResponse, len(models))
	for i, mod := range models {
		r.Schedules[i].FromModel(mod)
	}
}
