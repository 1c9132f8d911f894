package model

import "boatbook/shared/model"

const (
	PassengerTableName  = "passengers"
	PassengerEntityName = "passenger"

	FieldPassengerBookingID = "booking_id"
)

type Passenger struct {
	ID               string `db:"id"`
	BookingID        string `db:"booking_id"`
	Name             string `db:"name"`
	Age              int    `db:"age"`
	EmergencyContact string `db:"emergency_contact"`
	model.Metadata
}
