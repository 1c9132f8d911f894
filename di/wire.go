//go:build wireinject
// +build wireinject

package di

import (
	"boatbook/config"
	"boatbook/infras/jwt"
	"boatbook/infras/kafka"
	"boatbook/infras/otel"
	"boatbook/infras/payment"
	"boatbook/infras/postgres"
	"boatbook/infras/redis"
	"boatbook/infras/s3"
	authService "boatbook/internal/domains/auth/service"
	boatRepository "boatbook/internal/domains/boat/repository"
	boatService "boatbook/internal/domains/boat/service"
	bookingRepository "boatbook/internal/domains/booking/repository"
	bookingService "boatbook/internal/domains/booking/service"
	notificationRepository "boatbook/internal/domains/notification/repository"
	notificationService "boatbook/internal/domains/notification/service"
	paymentRepository "boatbook/internal/domains/payment/repository"
	scheduleRepository "boatbook/internal/domains/schedule/repository"
	scheduleService "boatbook/internal/domains/schedule/service"
	tripRepository "boatbook/internal/domains/trip/repository"
	tripService "boatbook/internal/domains/trip/service"
	userRepository "boatbook/internal/domains/user/repository"
	userService "boatbook/internal/domains/user/service"
	authHandler "boatbook/internal/handlers/auth"
	boatHandler "boatbook/internal/handlers/boat"
	bookingHandler "boatbook/internal/handlers/booking"
	notificationHandler "boatbook/internal/handlers/notification"
	scheduleHandler "boatbook/internal/handlers/schedule"
	tripHandler "boatbook/internal/handlers/trip"
	userHandler "boatbook/internal/handlers/user"
	"boatbook/permissions"
	"boatbook/shared/cache"
	gRepository "boatbook/shared/repository"
	"boatbook/transport/http"
	"boatbook/transport/http/middleware"
	"boatbook/transport/http/router"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	payment.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	gRepository.NewTransactor,
)

var authDomain = wire.NewSet(
	authService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var tripDomain = wire.NewSet(
	tripRepository.New,
	tripService.New,
)

var boatDomain = wire.NewSet(
	boatRepository.New,
	boatService.New,
)

var scheduleDomain = wire.NewSet(
	scheduleRepository.New,
	scheduleService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingRepository.NewPassenger,
	paymentRepository.New,
	bookingService.New,
)

var notificationDomain = wire.NewSet(
	notificationRepository.New,
	notificationService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	tripDomain,
	boatDomain,
	scheduleDomain,
	bookingDomain,
	notificationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	tripHandler.New,
	boatHandler.New,
	scheduleHandler.New,
	bookingHandler.New,
	notificationHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeRelay() notificationService.Relay {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		kafka.New,
		notificationRepository.New,
		notificationService.NewRelay,
	)

	return nil
}
