package router

import (
	"boatbook/internal/handlers/auth"
	"boatbook/internal/handlers/boat"
	"boatbook/internal/handlers/booking"
	"boatbook/internal/handlers/notification"
	"boatbook/internal/handlers/schedule"
	"boatbook/internal/handlers/trip"
	"boatbook/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	User         user.Handler
	Trip         trip.Handler
	Boat         boat.Handler
	Schedule     schedule.Handler
	Booking      booking.Handler
	Notification notification.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Trip.Router(routerGroup)
		r.DomainHandlers.Boat.Router(routerGroup)
		r.DomainHandlers.Schedule.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Notification.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
