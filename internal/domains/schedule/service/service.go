package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Schedule=MockScheduleService

import (
	"context"
	"fmt"

	"boatbook/config"
	"boatbook/infras/otel"
	boatModel "boatbook/internal/domains/boat/model"
	boatRepo "boatbook/internal/domains/boat/repository"
	bookingModel "boatbook/internal/domains/booking/model"
	bookingRepo "boatbook/internal/domains/booking/repository"
	notificationModel "boatbook/internal/domains/notification/model"
	notificationDto "boatbook/internal/domains/notification/model/dto"
	notificationService "boatbook/internal/domains/notification/service"
	"boatbook/internal/domains/schedule/model"
	"boatbook/internal/domains/schedule/model/dto"
	"boatbook/internal/domains/schedule/repository"
	tripModel "boatbook/internal/domains/trip/model"
	tripRepo "boatbook/internal/domains/trip/repository"
	userModel "boatbook/internal/domains/user/model"
	userRepo "boatbook/internal/domains/user/repository"
	"boatbook/shared"
	"boatbook/shared/actor"
	"boatbook/shared/cache"
	"boatbook/shared/constant"
	gDto "boatbook/shared/dto"
	"boatbook/shared/failure"
	gRepo "boatbook/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const assignmentTitle = "New Assignment"

type Schedule interface {
	Create(ctx context.Context, act actor.Actor, req dto.CreateScheduleRequest) (string, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetSchedulesResponse, error)
	Get(ctx context.Context, id string) (dto.ScheduleResponse, error)
	Update(ctx context.Context, act actor.Actor, req dto.UpdateScheduleRequest, id string) error
	Delete(ctx context.Context, act actor.Actor, id string) error
	Assign(ctx context.Context, act actor.Actor, req dto.AssignRequest, id string) error
}

type serviceImpl struct {
	repo         repository.Schedule
	tripRepo     tripRepo.Trip
	boatRepo     boatRepo.Boat
	userRepo     userRepo.User
	bookingRepo  bookingRepo.Booking
	notification notificationService.Notification
	transactor   gRepo.Transactor
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Schedule,
	tripRepo tripRepo.Trip,
	boatRepo boatRepo.Boat,
	userRepo userRepo.User,
	bookingRepo bookingRepo.Booking,
	notification notificationService.Notification,
	transactor gRepo.Transactor,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Schedule {
	return &serviceImpl{
		repo:         repo,
		tripRepo:     tripRepo,
		boatRepo:     boatRepo,
		userRepo:     userRepo,
		bookingRepo:  bookingRepo,
		notification: notification,
		transactor:   transactor,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, act actor.Actor, req dto.CreateScheduleRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !act.Is(constant.RoleAdmin) {
		return id, failure.ForbiddenError
	}

	trip, err := s.tripRepo.Get(ctx, shared.FilterByID(req.TripID, tripModel.FieldID, tripModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get trip")

		return id, fmt.Errorf("failed to get trip: %w", err)
	}

	if trip.ID == constant.Empty || !trip.IsActive {
		return id, failure.NotFound("trip not found")
	}

	schedule, err := req.ToModel(act.UserID)
	if err != nil {
		return id, failure.BadRequest(err)
	}

	if err = s.repo.Insert(ctx, schedule); err != nil {
		log.Error().Err(err).Msg("failed to create schedule")

		return id, fmt.Errorf("failed to create schedule: %w", err)
	}

	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, model.CacheGetAllSchedule)
	}()

	return schedule.ID, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetSchedulesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheGetAllSchedule, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for schedules")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count schedules")

		return res, fmt.Errorf("failed to count schedules: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get schedules")

		return res, fmt.Errorf("failed to get schedules: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save schedules to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ScheduleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(model.CacheGetSchedule, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for schedule")

		return res, nil
	}

	schedule, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get schedule")

		return res, fmt.Errorf("failed to get schedule: %w", err)
	}

	if schedule.ID == constant.Empty {
		return res, failure.NotFound("schedule not found")
	}

	res.FromModel(schedule)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save schedule to cache")
		}
	}()

	return res, nil
}

// Update applies column changes and, when capacity is given, resizes the ledger in the
// same transaction.
func (s *serviceImpl) Update(ctx context.Context, act actor.Actor, req dto.UpdateScheduleRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !act.Is(constant.RoleAdmin) {
		return failure.ForbiddenError
	}

	fields, err := req.ToUpdateMap(act.UserID)
	if err != nil {
		return failure.BadRequest(err)
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	err = s.transactor.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.repo.GetTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to get schedule: %w", err)
		}

		if current.ID == constant.Empty {
			return failure.NotFound("schedule not found")
		}

		if req.Capacity != nil {
			if _, err := s.repo.ResizeTx(ctx, tx, id, *req.Capacity); err != nil {
				return err
			}
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
			return fmt.Errorf("failed to update schedule: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("schedule_id", id).Msg("failed to update schedule")

		return err
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete removes a schedule without active bookings. A schedule that only has
// cancelled bookings is kept for their history and marked cancelled instead.
func (s *serviceImpl) Delete(ctx context.Context, act actor.Actor, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !act.Is(constant.RoleAdmin) {
		return failure.ForbiddenError
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	err = s.transactor.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		// Holding the row lock keeps ReserveTx from adding a booking between the checks and the delete.
		schedule, err := s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to lock schedule")

			return fmt.Errorf("failed to lock schedule: %w", err)
		}

		if schedule.ID == constant.Empty {
			return failure.NotFound("schedule not found")
		}

		active, err := s.bookingRepo.ExistTx(ctx, tx, activeBookingsFilter(id))
		if err != nil {
			log.Error().Err(err).Msg("failed to check active bookings")

			return fmt.Errorf("failed to check active bookings: %w", err)
		}

		if active {
			return failure.Conflict("Cannot delete schedule with active bookings")
		}

		referenced, err := s.bookingRepo.ExistTx(ctx, tx, shared.FilterByID(id, bookingModel.FieldScheduleID, bookingModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check schedule bookings")

			return fmt.Errorf("failed to check schedule bookings: %w", err)
		}

		if !referenced {
			if err := s.repo.DeleteTx(ctx, tx, filter); err != nil {
				log.Error().Err(err).Msg("failed to delete schedule")

				return fmt.Errorf("failed to delete schedule: %w", err)
			}

			return nil
		}

		retire := shared.TransformFields(struct {
			Status string `db:"status"`
		}{Status: model.StatusCancelled}, act.UserID)

		if err := s.repo.UpdateTx(ctx, tx, retire, filter); err != nil {
			log.Error().Err(err).Msg("failed to cancel schedule")

			return fmt.Errorf("failed to cancel schedule: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)

	return nil
}

// Assign sets the boat and guide of a schedule, confirms it and tells the guide.
func (s *serviceImpl) Assign(ctx context.Context, act actor.Actor, req dto.AssignRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Assign")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !act.IsStaff() {
		return failure.ForbiddenError
	}

	if req.Empty() {
		return failure.BadRequestFromString("boat_id or guide_id is required")
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	schedule, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get schedule")

		return fmt.Errorf("failed to get schedule: %w", err)
	}

	if schedule.ID == constant.Empty {
		return failure.NotFound("schedule not found")
	}

	fields := struct {
		BoatID  string `db:"boat_id"`
		GuideID string `db:"guide_id"`
		Status  string `db:"status"`
	}{Status: model.StatusConfirmed}

	if req.BoatID != constant.Empty {
		if err = s.checkBoat(ctx, req.BoatID); err != nil {
			return err
		}

		fields.BoatID = req.BoatID
	}

	if req.GuideID != constant.Empty {
		if err = s.checkGuide(ctx, req.GuideID); err != nil {
			return err
		}

		fields.GuideID = req.GuideID
	}

	if err = s.repo.Update(ctx, shared.TransformFields(fields, act.UserID), filter); err != nil {
		log.Error().Err(err).Msg("failed to assign schedule")

		return fmt.Errorf("failed to assign schedule: %w", err)
	}

	s.invalidate(ctx, id)

	if req.GuideID != constant.Empty {
		s.notifyGuide(ctx, req.GuideID, schedule)
	}

	return nil
}

func (s *serviceImpl) checkBoat(ctx context.Context, id string) error {
	exist, err := s.boatRepo.Exist(ctx, shared.FilterByID(id, boatModel.FieldID, boatModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check boat existence")

		return fmt.Errorf("failed to check boat existence: %w", err)
	}

	if !exist {
		return failure.NotFound("boat not found")
	}

	return nil
}

func (s *serviceImpl) checkGuide(ctx context.Context, id string) error {
	exist, err := s.userRepo.Exist(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: userModel.FieldID, Operator: gDto.FilterOperatorEq, Value: id, Table: userModel.TableName},
			gDto.Filter{Field: userModel.FieldRole, Operator: gDto.FilterOperatorEq, Value: constant.RoleGuide, Table: userModel.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check guide existence")

		return fmt.Errorf("failed to check guide existence: %w", err)
	}

	if !exist {
		return failure.NotFound("guide not found")
	}

	return nil
}

func (s *serviceImpl) notifyGuide(ctx context.Context, guideID string, schedule model.Schedule) {
	req := notificationDto.EnqueueRequest{
		UserID: guideID,
		Title:  assignmentTitle,
		Message: fmt.Sprintf("You have been assigned to guide %q on %s at %s",
			schedule.TripTitle,
			schedule.ScheduledDate.Format(constant.DateOnlyFormat),
			schedule.DepartureTime.Short(),
		),
		Type: notificationModel.TypeAssignment,
	}

	if err := s.notification.Enqueue(ctx, req); err != nil {
		log.Error().Err(err).Str("guide_id", guideID).Str("schedule_id", schedule.ID).Msg("failed to notify guide")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(model.CacheGetSchedule, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete schedule from cache")
		}

		shared.InvalidateCaches(c, s.cache, model.CacheGetAllSchedule)
	}()
}

func activeBookingsFilter(scheduleID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldScheduleID, Operator: gDto.FilterOperatorEq, Value: scheduleID, Table: bookingModel.TableName},
			gDto.Filter{Field: bookingModel.FieldBookingStatus, Operator: gDto.FilterOperatorNotEq, Value: bookingModel.StatusCancelled, Table: bookingModel.TableName},
		},
	}
}
