package trip

import (
	"net/http"

	"boatbook/infras/otel"
	"boatbook/internal/domains/trip/model"
	"boatbook/internal/domains/trip/model/dto"
	"boatbook/internal/domains/trip/service"
	"boatbook/shared/actor"
	"boatbook/shared/constant"
	gDto "boatbook/shared/dto"
	"boatbook/shared/failure"
	"boatbook/shared/validator"
	"boatbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const queryParamSearch = "search"

type Handler struct {
	service service.Trip
	otel    otel.Otel
}

func New(service service.Trip, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/trips", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTrip)
		routerGroup.Get("/", handler.GetTrips)
		routerGroup.Get("/{id}", handler.GetTripByID)
		routerGroup.Patch("/{id}", handler.UpdateTrip)
		routerGroup.Delete("/{id}", handler.DeleteTrip)
		routerGroup.Post("/{id}/image", handler.UploadImage)
	})
}

// CreateTrip handles the creation of a new trip.
// @Summary Create a new trip
// @Tags Trip
// @Accept json
// @Produce json
// @Param request body dto.CreateTripRequest true "Create Trip Request"
// @Success 201 {object} response.Message "Trip created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/trips [post]
// @Security BearerAuth
func (handler *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTrip")
	defer scope.End()

	act, err := actor.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := dto.CreateTripRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if _, err := handler.service.Create(ctx, act, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create trip")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Trip created successfully")

	response.WithMessage(w, http.StatusCreated, "Trip created successfully")
}

// GetTrips lists active trips.
// @Summary Get all trips
// @Tags Trip
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param search query string false "Search by title"
// @Success 200 {object} response.Data[dto.GetTripsResponse] "List of trips"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/trips [get]
func (handler *Handler) GetTrips(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTrips")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Sanitize(model.TableName, model.FieldTitle, model.FieldPrice, model.FieldDurationHours, constant.FieldCreatedAt)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldIsActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.TableName,
			},
		},
	}

	if search := r.URL.Query().Get(queryParamSearch); search != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldTitle,
			Operator: gDto.FilterOperatorLike,
			Value:    search,
			Table:    model.TableName,
		})
	}

	trips, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get trips")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, trips)
}

// GetTripByID retrieves a trip.
// @Summary Get a trip by ID
// @Tags Trip
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} response.Data[dto.TripResponse] "Trip details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/trips/{id} [get]
func (handler *Handler) GetTripByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTripByID")
	defer scope.End()

	trip, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get trip")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, trip)
}

// UpdateTrip handles partial updates of a trip.
// @Summary Update a trip
// @Tags Trip
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body dto.UpdateTripRequest true "Update Trip Request"
// @Success 200 {object} response.Message "Trip updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/trips/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTrip")
	defer scope.End()

	act, err := actor.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := dto.UpdateTripRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, act, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update trip")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Trip updated successfully")

	response.WithMessage(w, http.StatusOK, "Trip updated successfully")
}

// DeleteTrip removes a trip.
// @Summary Delete a trip
// @Tags Trip
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} response.Message "Trip deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/trips/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTrip")
	defer scope.End()

	act, err := actor.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, act, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete trip")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Trip deleted successfully")

	response.WithMessage(w, http.StatusOK, "Trip deleted successfully")
}

// UploadImage handles cover image upload to S3.
// @Summary Upload a trip cover image
// @Tags Trip
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Trip ID"
// @Param file formData file true "Image file (png, jpeg)"
// @Success 200 {object} response.Data[dto.UploadImageResponse] "Image uploaded successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/trips/{id}/image [post]
// @Security BearerAuth
func (handler *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadImage")
	defer scope.End()

	act, err := actor.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, failure.BadRequest(err))

		return
	}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get file from form")

		response.WithError(w, failure.BadRequest(err))

		return
	}
	defer file.Close()

	req := dto.UploadImageRequest{
		Image:     fileHeader,
		ImageFile: file,
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate image")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.UploadImage(ctx, act, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload trip image")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Trip image uploaded successfully")

	response.WithJSON(w, http.StatusOK, res)
}
