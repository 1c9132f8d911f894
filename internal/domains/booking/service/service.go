package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"fmt"

	"boatbook/config"
	"boatbook/infras/otel"
	"boatbook/infras/payment"
	"boatbook/internal/domains/booking/model"
	"boatbook/internal/domains/booking/model/dto"
	"boatbook/internal/domains/booking/repository"
	notificationService "boatbook/internal/domains/notification/service"
	paymentRepo "boatbook/internal/domains/payment/repository"
	scheduleModel "boatbook/internal/domains/schedule/model"
	scheduleRepo "boatbook/internal/domains/schedule/repository"
	"boatbook/shared"
	"boatbook/shared/actor"
	"boatbook/shared/cache"
	"boatbook/shared/constant"
	gDto "boatbook/shared/dto"
	"boatbook/shared/failure"
	gRepo "boatbook/shared/repository"
	"boatbook/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Booking interface {
	Create(ctx context.Context, act actor.Actor, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	Get(ctx context.Context, act actor.Actor, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, act actor.Actor, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Confirm(ctx context.Context, act actor.Actor, id string) error
	Cancel(ctx context.Context, act actor.Actor, id string) error
	UpdateStatus(ctx context.Context, act actor.Actor, req dto.UpdateStatusRequest, id string) error
	ProcessPayment(ctx context.Context, act actor.Actor, req dto.ProcessPaymentRequest, id string) (dto.ProcessPaymentResponse, error)
	CheckIn(ctx context.Context, act actor.Actor, req dto.CheckInRequest, scheduleID string) error
	Ticket(ctx context.Context, act actor.Actor, id string) (dto.TicketResponse, error)
}

type serviceImpl struct {
	repo          repository.Booking
	passengerRepo repository.Passenger
	scheduleRepo  scheduleRepo.Schedule
	paymentRepo   paymentRepo.Payment
	gateway       payment.Gateway
	notification  notificationService.Notification
	transactor    gRepo.Transactor
	cfg           *config.Config
	cache         cache.RedisCache
	otel          otel.Otel
}

func New(
	repo repository.Booking,
	passengerRepo repository.Passenger,
	scheduleRepo scheduleRepo.Schedule,
	paymentRepo paymentRepo.Payment,
	gateway payment.Gateway,
	notification notificationService.Notification,
	transactor gRepo.Transactor,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:          repo,
		passengerRepo: passengerRepo,
		scheduleRepo:  scheduleRepo,
		paymentRepo:   paymentRepo,
		gateway:       gateway,
		notification:  notification,
		transactor:    transactor,
		cfg:           cfg,
		cache:         cache,
		otel:          otel,
	}
}

// Create reserves the seats and opens the booking with a pending payment in one transaction.
func (s *serviceImpl) Create(ctx context.Context, act actor.Actor, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !req.PassengersMatch() {
		return res, failure.BadRequestFromString("passengers must list exactly number_of_passengers entries")
	}

	schedule, err := s.scheduleRepo.Get(ctx, shared.FilterByID(req.ScheduleID, scheduleModel.FieldID, scheduleModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get schedule")

		return res, fmt.Errorf("failed to get schedule: %w", err)
	}

	if schedule.ID == constant.Empty {
		return res, failure.NotFound("schedule not found or not available for booking")
	}

	reference, err := newReferenceCode(s.cfg.Booking.ReferencePrefix)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate booking reference")

		return res, err
	}

	booking := req.ToModel(act.UserID, reference, schedule.TripPrice)
	booking.TripTitle = schedule.TripTitle

	err = s.transactor.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := s.scheduleRepo.ReserveTx(ctx, tx, booking.ScheduleID, booking.NumberOfPassengers, scheduleModel.BookableStatuses); err != nil {
			return err
		}

		if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		if err := s.passengerRepo.InsertBulkTx(ctx, tx, req.ToPassengers(booking.ID, act.UserID)); err != nil {
			return fmt.Errorf("failed to create passengers: %w", err)
		}

		if err := s.paymentRepo.InsertTx(ctx, tx, newPayment(booking, act.UserID)); err != nil {
			return fmt.Errorf("failed to open payment: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("schedule_id", req.ScheduleID).Msg("failed to create booking")

		return res, err
	}

	s.invalidateSchedule(ctx, booking.ScheduleID)
	s.notify(ctx, createdNotification(booking))

	return dto.CreateBookingResponse{
		BookingID:     booking.ID,
		ReferenceCode: booking.ReferenceCode,
		TotalAmount:   booking.TotalAmount,
	}, nil
}

func (s *serviceImpl) Get(ctx context.Context, act actor.Actor, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.visibleBooking(ctx, act, id)
	if err != nil {
		return res, err
	}

	passengers, err := s.passengers(ctx, booking.ID)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)
	res.WithPassengers(passengers)

	return res, nil
}

// GetAll lists every booking for staff and only their own for everyone else.
func (s *serviceImpl) GetAll(ctx context.Context, act actor.Actor, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !act.IsStaff() {
		filter = ownedBy(filter, act.UserID)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Confirm(ctx context.Context, act actor.Actor, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Confirm")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !act.IsStaff() {
		return failure.ForbiddenError
	}

	var booking model.Booking

	err = s.transactor.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var err error

		if booking, err = s.lockTx(ctx, tx, id); err != nil {
			return err
		}

		if booking.BookingStatus != model.StatusPending {
			return failure.Conflict(fmt.Sprintf("only pending bookings can be confirmed, booking is %s", booking.BookingStatus))
		}

		return s.applyTx(ctx, tx, booking, change{bookingStatus: model.StatusConfirmed, paymentStatus: booking.PaymentStatus}, act.UserID)
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to confirm booking")

		return err
	}

	s.notify(ctx, statusNotification(booking, model.StatusConfirmed, booking.PaymentStatus))

	return nil
}

// Cancel releases the seats of a booking. Customers cannot cancel inside the
// cancellation window; staff always can.
func (s *serviceImpl) Cancel(ctx context.Context, act actor.Actor, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	var booking model.Booking

	err = s.transactor.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var err error

		if booking, err = s.lockTx(ctx, tx, id); err != nil {
			return err
		}

		if !act.CanAccess(booking.UserID) {
			return failure.ResourceRestrictedError
		}

		switch booking.BookingStatus {
		case model.StatusCancelled:
			return failure.Conflict("booking is already cancelled")
		case model.StatusCompleted:
			return failure.Conflict("completed bookings cannot be cancelled")
		}

		if !act.IsStaff() {
			inside, err := booking.InsideCancellationWindow(timezone.Now(), s.cfg.CancellationWindow())
			if err != nil {
				return fmt.Errorf("failed to resolve departure: %w", err)
			}

			if inside {
				return failure.PolicyViolation(fmt.Sprintf("Cannot cancel booking within %d hours of departure", s.cfg.Booking.CancellationWindowHours))
			}
		}

		paymentStatus := booking.PaymentStatus
		if paymentStatus == model.PaymentPaid {
			paymentStatus = model.PaymentRefunded
		}

		return s.applyTx(ctx, tx, booking, change{bookingStatus: model.StatusCancelled, paymentStatus: paymentStatus}, act.UserID)
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to cancel booking")

		return err
	}

	s.invalidateSchedule(ctx, booking.ScheduleID)
	s.notify(ctx, statusNotification(booking, model.StatusCancelled, booking.PaymentStatus))

	return nil
}

// UpdateStatus lets staff set any status pair. Seats follow the cancelled boundary:
// leaving cancelled reserves them again and fails when they are gone.
func (s *serviceImpl) UpdateStatus(ctx context.Context, act actor.Actor, req dto.UpdateStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !act.IsStaff() {
		return failure.ForbiddenError
	}

	var (
		booking   model.Booking
		unchanged bool
	)

	err = s.transactor.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var err error

		if booking, err = s.lockTx(ctx, tx, id); err != nil {
			return err
		}

		if booking.BookingStatus == req.BookingStatus && booking.PaymentStatus == req.PaymentStatus {
			unchanged = true

			return nil
		}

		return s.applyTx(ctx, tx, booking, change{bookingStatus: req.BookingStatus, paymentStatus: req.PaymentStatus}, act.UserID)
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to update booking status")

		return err
	}

	if unchanged {
		return nil
	}

	if model.SeatMovement(booking.BookingStatus, req.BookingStatus) != model.SeatsKeep {
		s.invalidateSchedule(ctx, booking.ScheduleID)
	}

	s.notify(ctx, statusNotification(booking, req.BookingStatus, req.PaymentStatus))

	return nil
}

// ProcessPayment charges the owner's booking. A declined charge is committed as a
// failed payment and reported as a conflict; it may be retried.
func (s *serviceImpl) ProcessPayment(ctx context.Context, act actor.Actor, req dto.ProcessPaymentRequest, id string) (res dto.ProcessPaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ProcessPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	var (
		booking model.Booking
		charge  payment.ChargeResult
	)

	err = s.transactor.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var err error

		if booking, err = s.lockTx(ctx, tx, id); err != nil {
			return err
		}

		if !act.Owns(booking.UserID) {
			return failure.ResourceRestrictedError
		}

		if booking.PaymentStatus == model.PaymentPaid {
			return failure.Conflict("booking is already paid")
		}

		if !model.CanTransitionPayment(booking.PaymentStatus, model.PaymentPaid) ||
			!model.CanTransitionBooking(booking.BookingStatus, model.StatusConfirmed) {
			return failure.Conflict(fmt.Sprintf("cannot pay a %s booking", booking.BookingStatus))
		}

		charge, err = s.gateway.Charge(ctx, payment.ChargeRequest{
			BookingID:     booking.ID,
			ReferenceCode: booking.ReferenceCode,
			Amount:        booking.TotalAmount,
			Method:        req.PaymentMethod,
		})
		if err != nil {
			return fmt.Errorf("failed to charge booking: %w", err)
		}

		if !charge.Approved {
			return s.applyTx(ctx, tx, booking, change{
				bookingStatus: booking.BookingStatus,
				paymentStatus: model.PaymentFailed,
				paymentMethod: req.PaymentMethod,
			}, act.UserID)
		}

		return s.applyTx(ctx, tx, booking, change{
			bookingStatus: model.StatusConfirmed,
			paymentStatus: model.PaymentPaid,
			paymentMethod: req.PaymentMethod,
			transactionID: charge.TransactionID,
		}, act.UserID)
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to process payment")

		if charge.Approved {
			s.refund(ctx, booking, charge)
		}

		return res, err
	}

	if !charge.Approved {
		s.notify(ctx, paymentFailedNotification(booking))

		return res, failure.Conflict("payment declined")
	}

	s.notify(ctx, paymentNotification(booking, charge.TransactionID))

	return dto.ProcessPaymentResponse{
		TransactionID: charge.TransactionID,
		Amount:        booking.TotalAmount,
	}, nil
}

// refund voids a charge the gateway approved but the ledger never recorded.
func (s *serviceImpl) refund(ctx context.Context, booking model.Booking, charge payment.ChargeResult) {
	err := s.gateway.Refund(context.WithoutCancel(ctx), payment.RefundRequest{
		BookingID:     booking.ID,
		TransactionID: charge.TransactionID,
		Amount:        booking.TotalAmount,
		Reason:        "payment could not be recorded",
	})
	if err != nil {
		log.Error().Err(err).
			Str("booking_id", booking.ID).
			Str("transaction_id", charge.TransactionID).
			Msg("failed to refund unrecorded charge")
	}
}

// CheckIn records boarding for the acting guide's schedule. Cancelled bookings are skipped.
func (s *serviceImpl) CheckIn(ctx context.Context, act actor.Actor, req dto.CheckInRequest, scheduleID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !act.Is(constant.RoleGuide) {
		return failure.ForbiddenError
	}

	assigned, err := s.scheduleRepo.Exist(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: scheduleModel.FieldID, Operator: gDto.FilterOperatorEq, Value: scheduleID, Table: scheduleModel.TableName},
			gDto.Filter{Field: scheduleModel.FieldGuideID, Operator: gDto.FilterOperatorEq, Value: act.UserID, Table: scheduleModel.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check schedule assignment")

		return fmt.Errorf("failed to check schedule assignment: %w", err)
	}

	if !assigned {
		return failure.NotFound("schedule not found")
	}

	err = s.transactor.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		for _, item := range req.Bookings {
			fields := map[string]any{
				model.FieldCheckedIn:     item.CheckedIn,
				constant.FieldModifiedAt: timezone.Now(),
				constant.FieldModifiedBy: act.UserID,
			}

			if err := s.repo.UpdateTx(ctx, tx, fields, checkInFilter(item.BookingID, scheduleID)); err != nil {
				return fmt.Errorf("failed to check in booking %s: %w", item.BookingID, err)
			}
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("schedule_id", scheduleID).Msg("failed to check in passengers")

		return err
	}

	return nil
}

// Ticket renders the e-ticket of a non-cancelled booking.
func (s *serviceImpl) Ticket(ctx context.Context, act actor.Actor, id string) (res dto.TicketResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Ticket")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.visibleBooking(ctx, act, id)
	if err != nil {
		return res, err
	}

	if booking.IsCancelled() {
		return res, failure.Conflict("cancelled bookings have no ticket")
	}

	passengers, err := s.passengers(ctx, booking.ID)
	if err != nil {
		return res, err
	}

	content, err := renderTicket(booking, passengers, s.cfg.Booking.Currency)
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to render ticket")

		return res, err
	}

	return dto.TicketResponse{
		FileName: fmt.Sprintf("ticket-%s.pdf", booking.ReferenceCode),
		Content:  content,
	}, nil
}

func (s *serviceImpl) lockTx(ctx context.Context, tx *sqlx.Tx, id string) (model.Booking, error) {
	booking, err := s.repo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found")
	}

	return booking, nil
}

// visibleBooking returns a booking the actor may read: their own, any for staff,
// and those on a schedule the acting guide leads.
func (s *serviceImpl) visibleBooking(ctx context.Context, act actor.Actor, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found")
	}

	guided := act.Is(constant.RoleGuide) && booking.GuideID != nil && act.Owns(*booking.GuideID)
	if !act.CanAccess(booking.UserID) && !guided {
		return booking, failure.ResourceRestrictedError
	}

	return booking, nil
}

func (s *serviceImpl) passengers(ctx context.Context, bookingID string) ([]model.Passenger, error) {
	params := gDto.QueryParams{SortBy: model.PassengerTableName + "." + constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}

	passengers, err := s.passengerRepo.GetAll(ctx, params, shared.FilterByID(bookingID, model.FieldPassengerBookingID, model.PassengerTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get passengers")

		return nil, fmt.Errorf("failed to get passengers: %w", err)
	}

	return passengers, nil
}

func (s *serviceImpl) invalidateSchedule(ctx context.Context, scheduleID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(scheduleModel.CacheGetSchedule, scheduleID)); err != nil {
			log.Error().Err(err).Msg("failed to delete schedule from cache")
		}

		shared.InvalidateCaches(c, s.cache, scheduleModel.CacheGetAllSchedule)
	}()
}

func ownedBy(filter gDto.FilterGroup, userID string) gDto.FilterGroup {
	owner := gDto.Filter{Field: model.FieldUserID, Operator: gDto.FilterOperatorEq, Value: userID, Table: model.TableName}

	if len(filter.Filters) == 0 {
		return gDto.FilterGroup{Filters: []any{owner}}
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{filter, owner},
	}
}

func checkInFilter(bookingID, scheduleID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorEq, Value: bookingID, Table: model.TableName},
			gDto.Filter{Field: model.FieldScheduleID, Operator: gDto.FilterOperatorEq, Value: scheduleID, Table: model.TableName},
			gDto.Filter{Field: model.FieldBookingStatus, Operator: gDto.FilterOperatorNotEq, Value: model.StatusCancelled, Table: model.TableName},
		},
	}
}
