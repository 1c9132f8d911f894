package schedule

import (
	"net/http"

	"boatbook/infras/otel"
	bookingDto "boatbook/internal/domains/booking/model/dto"
	bookingService "boatbook/internal/domains/booking/service"
	"boatbook/internal/domains/schedule/model"
	"boatbook/internal/domains/schedule/model/dto"
	"boatbook/internal/domains/schedule/service"
	"boatbook/shared/actor"
	"boatbook/shared/constant"
	gDto "boatbook/shared/dto"
	"boatbook/shared/validator"
	"boatbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

var filterFields = []string{model.FieldTripID, model.FieldStatus, model.FieldScheduledDate}

type Handler struct {
	service  service.Schedule
	bookings bookingService.Booking
	otel     otel.Otel
}

func New(service service.Schedule, bookings bookingService.Booking, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		bookings: bookings,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/schedules", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateSchedule)
		routerGroup.Get("/", handler.GetSchedules)
		routerGroup.Get("/{id}", handler.GetScheduleByID)
		routerGroup.Patch("/{id}", handler.UpdateSchedule)
		routerGroup.Delete("/{id}", handler.DeleteSchedule)
		routerGroup.Patch("/{id}/assign", handler.AssignSchedule)
		routerGroup.Post("/{id}/check-in", handler.CheckIn)
	})
}

// CreateSchedule opens a departure of a trip.
// @Summary Create a schedule
// @Tags Schedule
// @Accept json
// @Produce json
// @Param request body dto.CreateScheduleRequest true "Create Schedule Request"
// @Success 201 {object} response.Message "Schedule created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/schedules [post]
// @Security BearerAuth
func (handler *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateSchedule")
	defer scope.End()

	act, err := actor.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := dto.CreateScheduleRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if _, err := handler.service.Create(ctx, act, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create schedule")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Schedule created successfully")

	response.WithMessage(w, http.StatusCreated, "Schedule created successfully")
}

// GetSchedules lists schedules with their remaining seats.
// @Summary Get all schedules
// @Tags Schedule
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param trip_id query string false "Filter by trip ID"
// @Param status query string false "Filter by status (scheduled, confirmed, cancelled, completed)"
// @Param scheduled_date query string false "Filter by date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetSchedulesResponse] "List of schedules"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/schedules [get]
func (handler *Handler) GetSchedules(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSchedules")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Sanitize(model.TableName, model.FieldScheduledDate, model.FieldDepartureTime, model.FieldAvailableSeats, constant.FieldCreatedAt)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range filterFields {
		if value := r.URL.Query().Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	schedules, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get schedules")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, schedules)
}

// GetScheduleByID retrieves a schedule.
// @Summary Get a schedule by ID
// @Tags Schedule
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Data[dto.ScheduleResponse] "Schedule details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/schedules/{id} [get]
func (handler *Handler) GetScheduleByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetScheduleByID")
	defer scope.End()

	schedule, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get schedule")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, schedule)
}

// UpdateSchedule changes date, times, capacity or status.
// @Summary Update a schedule
// @Description Capacity cannot shrink below the seats already reserved.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param request body dto.UpdateScheduleRequest true "Update Schedule Request"
// @Success 200 {object} response.Message "Schedule updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/schedules/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateSchedule")
	defer scope.End()

	act, err := actor.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := dto.UpdateScheduleRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, act, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update schedule")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Schedule updated successfully")

	response.WithMessage(w, http.StatusOK, "Schedule updated successfully")
}

// DeleteSchedule removes a schedule without active bookings.
// @Summary Delete a schedule
// @Tags Schedule
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Message "Schedule deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/schedules/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteSchedule")
	defer scope.End()

	act, err := actor.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, act, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete schedule")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Schedule deleted successfully")

	response.WithMessage(w, http.StatusOK, "Schedule deleted successfully")
}

// AssignSchedule sets the boat and guide of a schedule.
// @Summary Assign boat and guide
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param request body dto.AssignRequest true "Assign Request"
// @Success 200 {object} response.Message "Schedule assigned successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/schedules/{id}/assign [patch]
// @Security BearerAuth
func (handler *Handler) AssignSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignSchedule")
	defer scope.End()

	act, err := actor.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := dto.AssignRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Assign(ctx, act, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to assign schedule")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Schedule assigned successfully")

	response.WithMessage(w, http.StatusOK, "Schedule assigned successfully")
}

// CheckIn records which bookings boarded.
// @Summary Check in passengers
// @Description Only the guide assigned to the schedule may check in its bookings.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param request body bookingDto.CheckInRequest true "Check-in Request"
// @Success 200 {object} response.Message "Check-in updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/schedules/{id}/check-in [post]
// @Security BearerAuth
func (handler *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckIn")
	defer scope.End()

	act, err := actor.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := bookingDto.CheckInRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.bookings.CheckIn(ctx, act, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check in passengers")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Check-in updated successfully")

	response.WithMessage(w, http.StatusOK, "Check-in updated successfully")
}
