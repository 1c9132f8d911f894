package dto

import (
	"mime/multipart"

	"boatbook/internal/domains/trip/model"
	"boatbook/shared"
	gDto "boatbook/shared/dto"
	gModel "boatbook/shared/model"
	"boatbook/shared/timezone"

	"github.com/google/uuid"
)

type CreateTripRequest struct {
	Title             string  `json:"title"              validate:"required,max=255"`
	Description       string  `json:"description"        validate:"omitempty"`
	Price             float64 `json:"price"              validate:"gte=0"`
	DurationHours     float64 `json:"duration_hours"     validate:"gte=0"`
	MaxCapacity       int     `json:"max_capacity"       validate:"required,gt=0"`
	DepartureLocation string  `json:"departure_location" validate:"omitempty,max=255"`
	ReturnLocation    string  `json:"return_location"    validate:"omitempty,max=255"`
	Image             string  `json:"image"              validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
}

func (c *CreateTripRequest) ToModel(user string, imageURL string) model.Trip {
	return model.Trip{
		ID:                uuid.NewString(),
		Title:             c.Title,
		Description:       c.Description,
		Price:             c.Price,
		DurationHours:     c.DurationHours,
		MaxCapacity:       c.MaxCapacity,
		DepartureLocation: c.DepartureLocation,
		ReturnLocation:    c.ReturnLocation,
		ImageURL:          imageURL,
		IsActive:          true,
		Metadata:          gModel.NewMetadata(user, timezone.Now()),
	}
}

type UpdateTripRequest struct {
	Title             *string  `db:"title"              json:"title,omitempty"              validate:"omitempty,max=255"`
	Description       *string  `db:"description"        json:"description,omitempty"`
	Price             *float64 `db:"price"              json:"price,omitempty"              validate:"omitempty,gte=0"`
	DurationHours     *float64 `db:"duration_hours"     json:"duration_hours,omitempty"     validate:"omitempty,gte=0"`
	MaxCapacity       *int     `db:"max_capacity"       json:"max_capacity,omitempty"       validate:"omitempty,gt=0"`
	DepartureLocation *string  `db:"departure_location" json:"departure_location,omitempty" validate:"omitempty,max=255"`
	ReturnLocation    *string  `db:"return_location"    json:"return_location,omitempty"    validate:"omitempty,max=255"`
	IsActive          *bool    `db:"is_active"          json:"is_active,omitempty"`
	Image             *string  `json:"image,omitempty"  validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
}

// UploadImageRequest carries a multipart cover image.
type UploadImageRequest struct {
	Image     *multipart.FileHeader `json:"image" validate:"required,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	ImageFile multipart.File        `json:"-"`
}

type TripResponse struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	Price             float64 `json:"price"`
	DurationHours     float64 `json:"duration_hours"`
	MaxCapacity       int     `json:"max_capacity"`
	DepartureLocation string  `json:"departure_location"`
	ReturnLocation    string  `json:"return_location"`
	ImageURL          string  `json:"image_url"`
	IsActive          bool    `json:"is_active"`
	gDto.Metadata
}

func (r *TripResponse) FromModel(model model.Trip) {
	r.ID = model.ID
	r.Title = model.Title
	r.Description = model.Description
	r.Price = model.Price
	r.DurationHours = model.DurationHours
	r.MaxCapacity = model.MaxCapacity
	r.DepartureLocation = model.DepartureLocation
	r.ReturnLocation = model.ReturnLocation
	r.ImageURL = model.ImageURL
	r.IsActive = model.IsActive
	r.Metadata.FromModel(model.Metadata)
}

type GetTripsResponse struct {
	Trips     []TripResponse `json:"trips"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetTripsResponse) FromModels(models []model.Trip, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Trips = make([]TripResponse, len(models))
	for i, mod := range models {
		r.Trips[i].FromModel(mod)
	}
}

type UploadImageResponse struct {
	ImageURL string `json:"image_url"`
}
