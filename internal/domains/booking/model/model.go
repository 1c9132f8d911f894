package model

import (
	"fmt"
	"slices"
	"time"

	"boatbook/shared/model"
	"boatbook/shared/timezone"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                  = "id"
	FieldReferenceCode       = "reference_code"
	FieldUserID              = "user_id"
	FieldScheduleID          = "schedule_id"
	FieldNumberOfPassengers  = "number_of_passengers"
	FieldTotalAmount         = "total_amount"
	FieldBookingStatus       = "booking_status"
	FieldPaymentStatus       = "payment_status"
	FieldPaymentMethod       = "payment_method"
	FieldSpecialRequirements = "special_requirements"
	FieldCheckedIn           = "checked_in"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
	PaymentFailed   = "failed"
)

const (
	MethodOnline = "online"
	MethodCash   = "cash"
)

var bookingTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

var paymentTransitions = map[string][]string{
	PaymentPending: {PaymentPaid, PaymentFailed},
	PaymentFailed:  {PaymentPaid},
	PaymentPaid:    {PaymentRefunded},
}

type Booking struct {
	ID                  string  `db:"id"`
	ReferenceCode       string  `db:"reference_code"`
	UserID              string  `db:"user_id"`
	ScheduleID          string  `db:"schedule_id"`
	NumberOfPassengers  int     `db:"number_of_passengers"`
	TotalAmount         float64 `db:"total_amount"`
	BookingStatus       string  `db:"booking_status"`
	PaymentStatus       string  `db:"payment_status"`
	PaymentMethod       string  `db:"payment_method"`
	SpecialRequirements string  `db:"special_requirements"`
	CheckedIn           bool    `db:"checked_in"`

	ScheduledDate  time.Time      `db:"scheduled_date"  table:"trip_schedules" column:"scheduled_date"`
	DepartureTime  timezone.Clock `db:"departure_time"  table:"trip_schedules" column:"departure_time"`
	GuideID        *string        `db:"guide_id"        table:"trip_schedules" column:"guide_id"`
	ScheduleStatus string         `db:"schedule_status" table:"trip_schedules" column:"status"`
	TripTitle      string         `db:"trip_title"      table:"trips"          column:"title"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "JOIN trip_schedules ON trip_schedules.id = bookings.schedule_id JOIN trips ON trips.id = trip_schedules.trip_id"
}

// Departure is the instant the boat leaves, in the application timezone.
func (b Booking) Departure() (time.Time, error) {
	departure, err := timezone.Combine(b.ScheduledDate, b.DepartureTime.String())
	if err != nil {
		return time.Time{}, fmt.Errorf("booking %s: %w", b.ID, err)
	}

	return departure, nil
}

// InsideCancellationWindow reports whether less than window remains before departure.
// Exactly window ahead is still outside.
func (b Booking) InsideCancellationWindow(now time.Time, window time.Duration) (bool, error) {
	departure, err := b.Departure()
	if err != nil {
		return false, err
	}

	return departure.Sub(now) < window, nil
}

func (b Booking) IsCancelled() bool {
	return b.BookingStatus == StatusCancelled
}

func CanTransitionBooking(from, to string) bool {
	return from == to || slices.Contains(bookingTransitions[from], to)
}

func CanTransitionPayment(from, to string) bool {
	return from == to || slices.Contains(paymentTransitions[from], to)
}

type SeatMove int

const (
	SeatsKeep SeatMove = iota
	SeatsRelease
	SeatsReserve
)

// SeatMovement decides the ledger effect of a booking status change. Seats move
// only when the booking crosses the cancelled boundary.
func SeatMovement(from, to string) SeatMove {
	switch {
	case from != StatusCancelled && to == StatusCancelled:
		return SeatsRelease
	case from == StatusCancelled && to != StatusCancelled:
		return SeatsReserve
	default:
		return SeatsKeep
	}
}
