package model

import (
	"time"

	"boatbook/shared/model"
	"boatbook/shared/timezone"
)

const (
	TableName  = "trip_schedules"
	EntityName = "schedule"

	FieldID             = "id"
	FieldTripID         = "trip_id"
	FieldScheduledDate  = "scheduled_date"
	FieldDepartureTime  = "departure_time"
	FieldReturnTime     = "return_time"
	FieldBoatID         = "boat_id"
	FieldGuideID        = "guide_id"
	FieldCapacity       = "capacity"
	FieldAvailableSeats = "available_seats"
	FieldStatus         = "status"
)

const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Cache prefixes are shared with the booking service, which invalidates them
// after every ledger mutation.
const (
	CacheGetSchedule    = "schedule:get"
	CacheGetAllSchedule = "schedule:gets"
)

var (
	// BookableStatuses accept new bookings.
	BookableStatuses = []string{StatusScheduled}
	// ReopenStatuses accept seats coming back from a cancelled booking.
	ReopenStatuses = []string{StatusScheduled, StatusConfirmed}
)

type Schedule struct {
	ID             string         `db:"id"`
	TripID         string         `db:"trip_id"`
	ScheduledDate  time.Time      `db:"scheduled_date"`
	DepartureTime  timezone.Clock `db:"departure_time"`
	ReturnTime     timezone.Clock `db:"return_time"`
	BoatID         *string        `db:"boat_id"`
	GuideID        *string        `db:"guide_id"`
	Capacity       int            `db:"capacity"`
	AvailableSeats int            `db:"available_seats"`
	Status         string         `db:"status"`

	TripTitle string  `db:"trip_title" table:"trips" column:"title"`
	TripPrice float64 `db:"trip_price" table:"trips" column:"price"`
	model.Metadata
}

func (Schedule) GetJoinQuery() string {
	return "JOIN trips ON trips.id = trip_schedules.trip_id"
}

// Reserved is the number of seats held by non-cancelled bookings.
func (s Schedule) Reserved() int {
	return s.Capacity - s.AvailableSeats
}

// Ledger is the seat counter of a schedule after a ledger statement.
type Ledger struct {
	ID             string `db:"id"`
	Capacity       int    `db:"capacity"`
	AvailableSeats int    `db:"available_seats"`
	Status         string `db:"status"`
}
