package boat

import (
	"net/http"

	"boatbook/infras/otel"
	"boatbook/internal/domains/boat/model/dto"
	"boatbook/internal/domains/boat/service"
	"boatbook/shared/actor"
	"boatbook/shared/constant"
	"boatbook/shared/validator"
	"boatbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Boat
	otel    otel.Otel
}

func New(service service.Boat, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/boats", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBoat)
		routerGroup.Get("/", handler.GetBoats)
	})
}

// CreateBoat registers a boat.
// @Summary Create a boat
// @Tags Boat
// @Accept json
// @Produce json
// @Param request body dto.CreateBoatRequest true "Create Boat Request"
// @Success 201 {object} response.Message "Boat created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/boats [post]
// @Security BearerAuth
func (handler *Handler) CreateBoat(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBoat")
	defer scope.End()

	act, err := actor.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := dto.CreateBoatRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if _, err := handler.service.Create(ctx, act, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create boat")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Boat created successfully")

	response.WithMessage(w, http.StatusCreated, "Boat created successfully")
}

// GetBoats lists available boats by name.
// @Summary Get available boats
// @Tags Boat
// @Produce json
// @Success 200 {object} response.Data[dto.GetBoatsResponse] "Available boats"
// @Failure 500 {object} response.Error
// @Router /v1/boats [get]
// @Security BearerAuth
func (handler *Handler) GetBoats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBoats")
	defer scope.End()

	boats, err := handler.service.GetAvailable(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get boats")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, boats)
}
