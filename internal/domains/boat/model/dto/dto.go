package dto

import (
	"boatbook/internal/domains/boat/model"
	gModel "boatbook/shared/model"
	"boatbook/shared/timezone"

	"github.com/google/uuid"
)

type CreateBoatRequest struct {
	Name               string `json:"name"                validate:"required,max=255"`
	Capacity           int    `json:"capacity"            validate:"required,gt=0"`
	RegistrationNumber string `json:"registration_number" validate:"omitempty,max=100"`
}

func (c *CreateBoatRequest) ToModel(user string) model.Boat {
	return model.Boat{
		ID:                 uuid.NewString(),
		Name:               c.Name,
		Capacity:           c.Capacity,
		RegistrationNumber: c.RegistrationNumber,
		IsAvailable:        true,
		Metadata:           gModel.NewMetadata(user, timezone.Now()),
	}
}

type BoatResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Capacity           int    `json:"capacity"`
	RegistrationNumber string `json:"registration_number"`
	IsAvailable        bool   `json:"is_available"`
}

func (r *BoatResponse) FromModel(model model.Boat) {
	r.ID = model.ID
	r.Name = model.Name
	r.Capacity = model.Capacity
	r.RegistrationNumber = model.RegistrationNumber
	r.IsAvailable = model.IsAvailable
}

type GetBoatsResponse struct {
	Boats []BoatResponse `json:"boats"`
}

func (r *GetBoatsResponse) FromModels(models []model.Boat) {
	r.Boats = make([]BoatResponse, len(models))
	for i, mod := range models {
		r.Boats[i].FromModel(mod)
	}
}
