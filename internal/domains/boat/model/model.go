package model

import "boatbook/shared/model"

const (
	TableName  = "boats"
	EntityName = "boat"

	FieldID                 = "id"
	FieldName               = "name"
	FieldCapacity           = "capacity"
	FieldRegistrationNumber = "registration_number"
	FieldIsAvailable        = "is_available"
)

type Boat struct {
	ID                 string `db:"id"`
	Name               string `db:"name"`
	Capacity           int    `db:"capacity"`
	RegistrationNumber string `db:"registration_number"`
	IsAvailable        bool   `db:"is_available"`
	model.Metadata
}
