package dto

import (
	"math"

	"boatbook/internal/domains/booking/model"
	"boatbook/shared"
	"boatbook/shared/constant"
	gDto "boatbook/shared/dto"
	gModel "boatbook/shared/model"
	"boatbook/shared/timezone"

	"github.com/google/uuid"
)

type PassengerRequest struct {
	Name             string `json:"name"              validate:"required,max=255"`
	Age              int    `json:"age"               validate:"gte=0,lte=120"`
	EmergencyContact string `json:"emergency_contact" validate:"omitempty,max=255"`
}

type CreateBookingRequest struct {
	ScheduleID          string             `json:"schedule_id"          validate:"required,uuid"`
	NumberOfPassengers  int                `json:"number_of_passengers" validate:"required,gte=1"`
	Passengers          []PassengerRequest `json:"passengers"           validate:"required,min=1,dive"`
	PaymentMethod       string             `json:"payment_method"       validate:"required,oneof=online cash"`
	SpecialRequirements string             `json:"special_requirements" validate:"omitempty,max=1000"`
}

// PassengersMatch reports whether a detail row was given for every passenger.
func (c *CreateBookingRequest) PassengersMatch() bool {
	return len(c.Passengers) == c.NumberOfPassengers
}

// ToModel prices the booking at creation; the amount never follows later price changes.
func (c *CreateBookingRequest) ToModel(user, reference string, price float64) model.Booking {
	return model.Booking{
		ID:                  uuid.NewString(),
		ReferenceCode:       reference,
		UserID:              user,
		ScheduleID:          c.ScheduleID,
		NumberOfPassengers:  c.NumberOfPassengers,
		TotalAmount:         math.Round(price*float64(c.NumberOfPassengers)*100) / 100,
		BookingStatus:       model.StatusPending,
		PaymentStatus:       model.PaymentPending,
		PaymentMethod:       c.PaymentMethod,
		SpecialRequirements: c.SpecialRequirements,
		Metadata:            gModel.NewMetadata(user, timezone.Now()),
	}
}

func (c *CreateBookingRequest) ToPassengers(bookingID, user string) []model.Passenger {
	now := timezone.Now()

	passengers := make([]model.Passenger, len(c.Passengers))
	for i, p := range c.Passengers {
		passengers[i] = model.Passenger{
			ID:               uuid.NewString(),
			BookingID:        bookingID,
			Name:             p.Name,
			Age:              p.Age,
			EmergencyContact: p.EmergencyContact,
			Metadata:         gModel.NewMetadata(user, now),
		}
	}

	return passengers
}

type CreateBookingResponse struct {
	BookingID     string  `json:"booking_id"`
	ReferenceCode string  `json:"reference_code"`
	TotalAmount   float64 `json:"total_amount"`
}

type UpdateStatusRequest struct {
	BookingStatus string `json:"booking_status" validate:"required,oneof=pending confirmed completed cancelled"`
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending paid refunded failed"`
}

type ProcessPaymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=online cash"`
}

type ProcessPaymentResponse struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
}

type CheckInItem struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	CheckedIn bool   `json:"checked_in"`
}

type CheckInRequest struct {
	Bookings []CheckInItem `json:"bookings" validate:"required,min=1,dive"`
}

type PassengerResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Age              int    `json:"age"`
	EmergencyContact string `json:"emergency_contact"`
}

type BookingResponse struct {
	ID                  string              `json:"id"`
	ReferenceCode       string              `json:"reference_code"`
	UserID              string              `json:"user_id"`
	ScheduleID          string              `json:"schedule_id"`
	TripTitle           string              `json:"trip_title"`
	ScheduledDate       string              `json:"scheduled_date"`
	DepartureTime       string              `json:"departure_time"`
	NumberOfPassengers  int                 `json:"number_of_passengers"`
	TotalAmount         float64             `json:"total_amount"`
	BookingStatus       string              `json:"booking_status"`
	PaymentStatus       string              `json:"payment_status"`
	PaymentMethod       string              `json:"payment_method"`
	SpecialRequirements string              `json:"special_requirements"`
	CheckedIn           bool                `json:"checked_in"`
	Passengers          []PassengerResponse `json:"passengers,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.ReferenceCode = model.ReferenceCode
	r.UserID = model.UserID
	r.ScheduleID = model.ScheduleID
	r.TripTitle = model.TripTitle
	r.ScheduledDate = model.ScheduledDate.Format(constant.DateOnlyFormat)
	r.DepartureTime = model.DepartureTime.Short()
	r.NumberOfPassengers = model.NumberOfPassengers
	r.TotalAmount = model.TotalAmount
	r.BookingStatus = model.BookingStatus
	r.PaymentStatus = model.PaymentStatus
	r.PaymentMethod = model.PaymentMethod
	r.SpecialRequirements = model.SpecialRequirements
	r.CheckedIn = model.CheckedIn
	r.Metadata.FromModel(model.Metadata)
}

func (r *BookingResponse) WithPassengers(passengers []model.Passenger) {
	r.Passengers = make([]PassengerResponse, len(passengers))
	for i, p := range passengers {
		r.Passengers[i] = PassengerResponse{
			ID:               p.ID,
			Name:             p.Name,
			Age:              p.Age,
			EmergencyContact: p.EmergencyContact,
		}
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// TicketResponse is a rendered e-ticket document.
type TicketResponse struct {
	FileName string
	Content  []byte
}
