package model

import "boatbook/shared/model"

const (
	TableName  = "trips"
	EntityName = "trip"

	FieldID                = "id"
	FieldTitle             = "title"
	FieldDescription       = "description"
	FieldPrice             = "price"
	FieldDurationHours     = "duration_hours"
	FieldMaxCapacity       = "max_capacity"
	FieldDepartureLocation = "departure_location"
	FieldReturnLocation    = "return_location"
	FieldImageURL          = "image_url"
	FieldIsActive          = "is_active"
)

type Trip struct {
	ID                string  `db:"id"`
	Title             string  `db:"title"`
	Description       string  `db:"description"`
	Price             float64 `db:"price"`
	DurationHours     float64 `db:"duration_hours"`
	MaxCapacity       int     `db:"max_capacity"`
	DepartureLocation string  `db:"departure_location"`
	ReturnLocation    string  `db:"return_location"`
	ImageURL          string  `db:"image_url"`
	IsActive          bool    `db:"is_active"`
	model.Metadata
}
