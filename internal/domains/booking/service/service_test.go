package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"boatbook/config"
	"boatbook/infras/otel/mocks"
	"boatbook/infras/payment"
	paymentMocks "boatbook/infras/payment/mocks"
	bookingMocks "boatbook/internal/domains/booking/mocks"
	"boatbook/internal/domains/booking/model"
	"boatbook/internal/domains/booking/model/dto"
	"boatbook/internal/domains/booking/service"
	notificationMocks "boatbook/internal/domains/notification/mocks"
	notificationDto "boatbook/internal/domains/notification/model/dto"
	paymentRepoMocks "boatbook/internal/domains/payment/mocks"
	paymentModel "boatbook/internal/domains/payment/model"
	scheduleMocks "boatbook/internal/domains/schedule/mocks"
	scheduleModel "boatbook/internal/domains/schedule/model"
	"boatbook/shared/actor"
	cacheMocks "boatbook/shared/cache/mocks"
	"boatbook/shared/constant"
	gDto "boatbook/shared/dto"
	"boatbook/shared/failure"
	"boatbook/shared/repository"
	repoMocks "boatbook/shared/repository/mocks"
	"boatbook/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo         *bookingMocks.MockBooking
	passengers   *bookingMocks.MockPassenger
	schedules    *scheduleMocks.MockSchedule
	payments     *paymentRepoMocks.MockPayment
	gateway      *paymentMocks.MockGateway
	notification *notificationMocks.MockNotificationService
	transactor   *repoMocks.MockTransactor
	cache        *cacheMocks.MockRedisCache
	svc          service.Booking
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:         bookingMocks.NewMockBooking(ctrl),
		passengers:   bookingMocks.NewMockPassenger(ctrl),
		schedules:    scheduleMocks.NewMockSchedule(ctrl),
		payments:     paymentRepoMocks.NewMockPayment(ctrl),
		gateway:      paymentMocks.NewMockGateway(ctrl),
		notification: notificationMocks.NewMockNotificationService(ctrl),
		transactor:   repoMocks.NewMockTransactor(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Booking.CancellationWindowHours = 24
	cfg.Booking.ReferencePrefix = "BS"
	cfg.Booking.Currency = "IDR"

	f.svc = service.New(f.repo, f.passengers, f.schedules, f.payments, f.gateway, f.notification, f.transactor, cfg, f.cache, mocks.NewOtel())

	f.transactor.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn repository.TxFunc) error {
		return fn(ctx, nil)
	}).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.notification.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

var (
	admin    = actor.New("admin-1", constant.RoleAdmin)
	ops      = actor.New("ops-1", constant.RoleOperations)
	customer = actor.New("cust-1", constant.RoleCustomer)
	stranger = actor.New("cust-2", constant.RoleCustomer)
	guide    = actor.New("guide-1", constant.RoleGuide)
)

func ptr[T any](v T) *T {
	return &v
}

// booking returns a customer booking departing d from now.
func booking(status, paymentStatus string, d time.Duration) model.Booking {
	departure := timezone.Now().Add(d)

	return model.Booking{
		ID:                 "b-1",
		ReferenceCode:      "BSABCD1234",
		UserID:             customer.UserID,
		ScheduleID:         "s-1",
		NumberOfPassengers: 3,
		TotalAmount:        450000,
		BookingStatus:      status,
		PaymentStatus:      paymentStatus,
		PaymentMethod:      model.MethodOnline,
		ScheduledDate:      time.Date(departure.Year(), departure.Month(), departure.Day(), 0, 0, 0, 0, time.UTC),
		DepartureTime:      timezone.Clock(departure.Format("15:04:05")),
		TripTitle:          "Island Hopping",
		GuideID:            ptr(guide.UserID),
	}
}

func createRequest(n int) dto.CreateBookingRequest {
	req := dto.CreateBookingRequest{
		ScheduleID:         "s-1",
		NumberOfPassengers: n,
		PaymentMethod:      model.MethodOnline,
	}

	for range n {
		req.Passengers = append(req.Passengers, dto.PassengerRequest{Name: "Rina", Age: 30})
	}

	return req
}

func TestBookingService_Create(t *testing.T) {
	schedule := scheduleModel.Schedule{ID: "s-1", TripTitle: "Island Hopping", TripPrice: 150000.5, Capacity: 10, AvailableSeats: 10, Status: scheduleModel.StatusScheduled}

	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func(f fixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "reserves seats and opens a pending payment",
			req:  createRequest(3),
			setupMock: func(f fixture) {
				f.schedules.EXPECT().Get(gomock.Any(), gomock.Any()).Return(schedule, nil)
				f.schedules.EXPECT().ReserveTx(gomock.Any(), gomock.Any(), "s-1", 3, scheduleModel.BookableStatuses).
					Return(scheduleModel.Ledger{ID: "s-1", Capacity: 10, AvailableSeats: 7}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
					assert.Equal(t, 450001.5, b.TotalAmount)
					assert.Equal(t, model.StatusPending, b.BookingStatus)
					assert.Equal(t, model.PaymentPending, b.PaymentStatus)
					assert.Regexp(t, `^BS[A-Z0-9]{8}$`, b.ReferenceCode)

					return nil
				})
				f.passengers.EXPECT().InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Len(3)).Return(nil)
				f.payments.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, p paymentModel.Payment) error {
					assert.Equal(t, paymentModel.StatusPending, p.Status)
					assert.Equal(t, 450001.5, p.Amount)

					return nil
				})
			},
		},
		{
			name:      "passenger details do not match the count",
			req:       dto.CreateBookingRequest{ScheduleID: "s-1", NumberOfPassengers: 2, Passengers: []dto.PassengerRequest{{Name: "Rina"}}},
			setupMock: func(fixture) {},
			wantErr:   true,
			wantKind:  failure.KindValidation,
		},
		{
			name: "unknown schedule",
			req:  createRequest(1),
			setupMock: func(f fixture) {
				f.schedules.EXPECT().Get(gomock.Any(), gomock.Any()).Return(scheduleModel.Schedule{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
		{
			name: "not enough seats",
			req:  createRequest(4),
			setupMock: func(f fixture) {
				f.schedules.EXPECT().Get(gomock.Any(), gomock.Any()).Return(schedule, nil)
				f.schedules.EXPECT().ReserveTx(gomock.Any(), gomock.Any(), "s-1", 4, gomock.Any()).
					Return(scheduleModel.Ledger{}, failure.Capacity("only 3 seats available"))
			},
			wantErr:  true,
			wantKind: failure.KindCapacity,
		},
		{
			name: "payment row fails",
			req:  createRequest(1),
			setupMock: func(f fixture) {
				f.schedules.EXPECT().Get(gomock.Any(), gomock.Any()).Return(schedule, nil)
				f.schedules.EXPECT().ReserveTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(scheduleModel.Ledger{}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.passengers.EXPECT().InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.payments.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantErr:  true,
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(context.Background(), customer, tt.req)
			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, res.BookingID)
			assert.Regexp(t, `^BS[A-Z0-9]{8}$`, res.ReferenceCode)
		})
	}
}

func TestBookingService_CreateNotifiesCashInstructions(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	notification := notificationMocks.NewMockNotificationService(ctrl)

	cfg := &config.Config{}
	cfg.Booking.ReferencePrefix = "BS"
	svc := service.New(f.repo, f.passengers, f.schedules, f.payments, f.gateway, notification, f.transactor, cfg, f.cache, mocks.NewOtel())

	sent := make(chan notificationDto.EnqueueRequest, 1)

	f.schedules.EXPECT().Get(gomock.Any(), gomock.Any()).Return(scheduleModel.Schedule{ID: "s-1", TripPrice: 100}, nil)
	f.schedules.EXPECT().ReserveTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(scheduleModel.Ledger{}, nil)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.passengers.EXPECT().InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.payments.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	notification.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req notificationDto.EnqueueRequest) error {
		sent <- req

		return nil
	})

	req := createRequest(1)
	req.PaymentMethod = model.MethodCash

	_, err := svc.Create(context.Background(), customer, req)
	require.NoError(t, err)

	select {
	case got := <-sent:
		assert.Equal(t, customer.UserID, got.UserID)
		assert.Equal(t, "Booking Created", got.Title)
		assert.Contains(t, got.Message, "Please pay cash on arrival.")
	case <-time.After(time.Second):
		t.Fatal("notification was not enqueued")
	}
}

func TestBookingService_Confirm(t *testing.T) {
	tests := []struct {
		name      string
		act       actor.Actor
		setupMock func(f fixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "pending becomes confirmed without touching seats",
			act:  ops,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending, model.PaymentPending, 72*time.Hour), nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, model.StatusConfirmed, req[model.FieldBookingStatus])
					assert.Equal(t, model.PaymentPending, req[model.FieldPaymentStatus])

					return nil
				})
			},
		},
		{
			name:      "customer cannot confirm",
			act:       customer,
			setupMock: func(fixture) {},
			wantErr:   true,
			wantKind:  failure.KindPermission,
		},
		{
			name: "already confirmed",
			act:  admin,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusConfirmed, model.PaymentPaid, 72*time.Hour), nil)
			},
			wantErr:  true,
			wantKind: failure.KindConflict,
		},
		{
			name: "missing booking",
			act:  admin,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Confirm(context.Background(), tt.act, "b-1")
			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestBookingService_Cancel(t *testing.T) {
	tests := []struct {
		name      string
		act       actor.Actor
		setupMock func(f fixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "customer outside the window releases seats",
			act:  customer,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending, model.PaymentPending, 48*time.Hour), nil)
				f.schedules.EXPECT().ReleaseTx(gomock.Any(), gomock.Any(), "s-1", 3).Return(3, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, model.StatusCancelled, req[model.FieldBookingStatus])

					return nil
				})
			},
		},
		{
			name: "customer inside the window",
			act:  customer,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusConfirmed, model.PaymentPending, 23*time.Hour), nil)
			},
			wantErr:  true,
			wantKind: failure.KindPolicyViolation,
		},
		{
			name: "staff ignore the window and paid bookings are refunded",
			act:  ops,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusConfirmed, model.PaymentPaid, time.Hour), nil)
				f.schedules.EXPECT().ReleaseTx(gomock.Any(), gomock.Any(), "s-1", 3).Return(3, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.payments.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, paymentModel.StatusRefunded, req[paymentModel.FieldStatus])

					return nil
				})
			},
		},
		{
			name: "already cancelled",
			act:  admin,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusCancelled, model.PaymentPending, 48*time.Hour), nil)
			},
			wantErr:  true,
			wantKind: failure.KindConflict,
		},
		{
			name: "completed bookings stay",
			act:  admin,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusCompleted, model.PaymentPaid, -48*time.Hour), nil)
			},
			wantErr:  true,
			wantKind: failure.KindConflict,
		},
		{
			name: "someone else's booking",
			act:  stranger,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending, model.PaymentPending, 48*time.Hour), nil)
			},
			wantErr:  true,
			wantKind: failure.KindPermission,
		},
		{
			name: "release fails and rolls back",
			act:  customer,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending, model.PaymentPending, 48*time.Hour), nil)
				f.schedules.EXPECT().ReleaseTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(0, errors.New("db down"))
			},
			wantErr:  true,
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Cancel(context.Background(), tt.act, "b-1")
			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestBookingService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name      string
		act       actor.Actor
		current   model.Booking
		req       dto.UpdateStatusRequest
		setupMock func(f fixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name:    "reopening a cancelled booking reserves seats again",
			act:     admin,
			current: booking(model.StatusCancelled, model.PaymentPending, 48*time.Hour),
			req:     dto.UpdateStatusRequest{BookingStatus: model.StatusConfirmed, PaymentStatus: model.PaymentPending},
			setupMock: func(f fixture) {
				f.schedules.EXPECT().ReserveTx(gomock.Any(), gomock.Any(), "s-1", 3, scheduleModel.ReopenStatuses).Return(scheduleModel.Ledger{}, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "reopening fails when the seats are gone",
			act:     admin,
			current: booking(model.StatusCancelled, model.PaymentPending, 48*time.Hour),
			req:     dto.UpdateStatusRequest{BookingStatus: model.StatusPending, PaymentStatus: model.PaymentPending},
			setupMock: func(f fixture) {
				f.schedules.EXPECT().ReserveTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(scheduleModel.Ledger{}, failure.Capacity("only 1 seats available"))
			},
			wantErr:  true,
			wantKind: failure.KindCapacity,
		},
		{
			name:    "cancelling releases seats",
			act:     ops,
			current: booking(model.StatusConfirmed, model.PaymentPaid, 2*time.Hour),
			req:     dto.UpdateStatusRequest{BookingStatus: model.StatusCancelled, PaymentStatus: model.PaymentRefunded},
			setupMock: func(f fixture) {
				f.schedules.EXPECT().ReleaseTx(gomock.Any(), gomock.Any(), "s-1", 3).Return(3, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.payments.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "completion keeps the seats",
			act:     admin,
			current: booking(model.StatusConfirmed, model.PaymentPaid, -2*time.Hour),
			req:     dto.UpdateStatusRequest{BookingStatus: model.StatusCompleted, PaymentStatus: model.PaymentPaid},
			setupMock: func(f fixture) {
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:      "unchanged pair is a no-op",
			act:       admin,
			current:   booking(model.StatusPending, model.PaymentPending, 48*time.Hour),
			req:       dto.UpdateStatusRequest{BookingStatus: model.StatusPending, PaymentStatus: model.PaymentPending},
			setupMock: func(fixture) {},
		},
		{
			name:      "guides cannot override",
			act:       guide,
			req:       dto.UpdateStatusRequest{BookingStatus: model.StatusCompleted, PaymentStatus: model.PaymentPaid},
			setupMock: func(fixture) {},
			wantErr:   true,
			wantKind:  failure.KindPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.current.ID != constant.Empty {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.current, nil)
			}
			tt.setupMock(f)

			err := f.svc.UpdateStatus(context.Background(), tt.act, tt.req, "b-1")
			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestBookingService_ProcessPayment(t *testing.T) {
	req := dto.ProcessPaymentRequest{PaymentMethod: model.MethodOnline}

	tests := []struct {
		name      string
		act       actor.Actor
		setupMock func(f fixture)
		want      dto.ProcessPaymentResponse
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "approved charge confirms and pays",
			act:  customer,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending, model.PaymentPending, 48*time.Hour), nil)
				f.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req payment.ChargeRequest) (payment.ChargeResult, error) {
					assert.Equal(t, 450000.0, req.Amount)

					return payment.ChargeResult{Approved: true, TransactionID: "TXN1"}, nil
				})
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, model.StatusConfirmed, req[model.FieldBookingStatus])
					assert.Equal(t, model.PaymentPaid, req[model.FieldPaymentStatus])

					return nil
				})
				f.payments.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, paymentModel.StatusCompleted, req[paymentModel.FieldStatus])
					assert.Equal(t, "TXN1", req[paymentModel.FieldTransactionID])
					assert.Contains(t, req, paymentModel.FieldPaymentDate)

					return nil
				})
			},
			want: dto.ProcessPaymentResponse{TransactionID: "TXN1", Amount: 450000},
		},
		{
			name: "retry after a failed payment",
			act:  customer,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending, model.PaymentFailed, 48*time.Hour), nil)
				f.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(payment.ChargeResult{Approved: true, TransactionID: "TXN2"}, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.payments.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			want: dto.ProcessPaymentResponse{TransactionID: "TXN2", Amount: 450000},
		},
		{
			name: "declined charge records the failure",
			act:  customer,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending, model.PaymentPending, 48*time.Hour), nil)
				f.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(payment.ChargeResult{Reason: "card declined"}, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, model.StatusPending, req[model.FieldBookingStatus])
					assert.Equal(t, model.PaymentFailed, req[model.FieldPaymentStatus])

					return nil
				})
				f.payments.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, paymentModel.StatusFailed, req[paymentModel.FieldStatus])

					return nil
				})
			},
			wantErr:  true,
			wantKind: failure.KindConflict,
		},
		{
			name: "double payment",
			act:  customer,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusConfirmed, model.PaymentPaid, 48*time.Hour), nil)
			},
			wantErr:  true,
			wantKind: failure.KindConflict,
		},
		{
			name: "cancelled booking",
			act:  customer,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusCancelled, model.PaymentPending, 48*time.Hour), nil)
			},
			wantErr:  true,
			wantKind: failure.KindConflict,
		},
		{
			name: "only the owner pays",
			act:  stranger,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending, model.PaymentPending, 48*time.Hour), nil)
			},
			wantErr:  true,
			wantKind: failure.KindPermission,
		},
		{
			name: "approved charge is refunded when it cannot be recorded",
			act:  customer,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending, model.PaymentPending, 48*time.Hour), nil)
				f.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(payment.ChargeResult{Approved: true, TransactionID: "TXN3"}, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError)
				f.gateway.EXPECT().Refund(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req payment.RefundRequest) error {
					assert.Equal(t, "b-1", req.BookingID)
					assert.Equal(t, "TXN3", req.TransactionID)
					assert.Equal(t, 450000.0, req.Amount)

					return nil
				})
			},
			wantErr:  true,
			wantKind: failure.KindInternal,
		},
		{
			name: "refund failure still returns the recording error",
			act:  customer,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending, model.PaymentPending, 48*time.Hour), nil)
				f.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(payment.ChargeResult{Approved: true, TransactionID: "TXN4"}, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.payments.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError)
				f.gateway.EXPECT().Refund(gomock.Any(), gomock.Any()).Return(errors.New("gateway unavailable"))
			},
			wantErr:  true,
			wantKind: failure.KindInternal,
		},
		{
			name: "gateway error",
			act:  customer,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending, model.PaymentPending, 48*time.Hour), nil)
				f.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(payment.ChargeResult{}, errors.New("timeout"))
			},
			wantErr:  true,
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.ProcessPayment(context.Background(), tt.act, req, "b-1")
			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestBookingService_CheckIn(t *testing.T) {
	req := dto.CheckInRequest{Bookings: []dto.CheckInItem{
		{BookingID: "b-1", CheckedIn: true},
		{BookingID: "b-2", CheckedIn: false},
	}}

	tests := []struct {
		name      string
		act       actor.Actor
		setupMock func(f fixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "assigned guide records boarding",
			act:  guide,
			setupMock: func(f fixture) {
				f.schedules.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error {
					assert.Contains(t, req, model.FieldCheckedIn)
					assert.Len(t, filter.Filters, 3)

					return nil
				}).Times(2)
			},
		},
		{
			name: "schedule led by another guide",
			act:  guide,
			setupMock: func(f fixture) {
				f.schedules.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
		{
			name:      "customers cannot check in",
			act:       customer,
			setupMock: func(fixture) {},
			wantErr:   true,
			wantKind:  failure.KindPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.CheckIn(context.Background(), tt.act, req, "s-1")

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	tests := []struct {
		name      string
		act       actor.Actor
		setupMock func(f fixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "owner sees passengers",
			act:  customer,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(model.StatusPending, model.PaymentPending, 48*time.Hour), nil)
				f.passengers.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Passenger{{ID: "p-1", Name: "Rina", Age: 30}}, nil)
			},
		},
		{
			name: "assigned guide",
			act:  guide,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(model.StatusPending, model.PaymentPending, 48*time.Hour), nil)
				f.passengers.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
		},
		{
			name: "another customer",
			act:  stranger,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(model.StatusPending, model.PaymentPending, 48*time.Hour), nil)
			},
			wantErr:  true,
			wantKind: failure.KindPermission,
		},
		{
			name: "missing",
			act:  admin,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), tt.act, "b-1")

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "BSABCD1234", res.ReferenceCode)
			assert.Equal(t, "Island Hopping", res.TripTitle)
		})
	}
}

func TestBookingService_GetAllScopesCustomers(t *testing.T) {
	f := newFixture(t)
	params := gDto.QueryParams{Page: 1, Limit: 10}
	status := gDto.FilterGroup{Filters: []any{
		gDto.Filter{Field: model.FieldBookingStatus, Operator: gDto.FilterOperatorEq, Value: model.StatusPending, Table: model.TableName},
	}}

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
		where, args := filter.GetWhereClause()
		assert.Contains(t, where, "bookings.user_id")
		assert.Contains(t, where, "bookings.booking_status")
		assert.Equal(t, customer.UserID, args[model.FieldUserID])

		return 1, nil
	})
	f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Booking{booking(model.StatusPending, model.PaymentPending, 48*time.Hour)}, nil)

	res, err := f.svc.GetAll(context.Background(), customer, params, status)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Bookings, 1)

	f.repo.EXPECT().Count(gomock.Any(), status).Return(0, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), params, status).Return(nil, nil)

	_, err = f.svc.GetAll(context.Background(), admin, params, status)
	require.NoError(t, err)
}

func TestBookingService_Ticket(t *testing.T) {
	t.Run("renders a pdf", func(t *testing.T) {
		f := newFixture(t)
		b := booking(model.StatusConfirmed, model.PaymentPaid, 48*time.Hour)
		b.SpecialRequirements = "vegetarian lunch"

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(b, nil)
		f.passengers.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Passenger{{Name: "Rina", Age: 30}}, nil)

		res, err := f.svc.Ticket(context.Background(), customer, "b-1")
		require.NoError(t, err)
		assert.Equal(t, "ticket-BSABCD1234.pdf", res.FileName)
		assert.True(t, bytes.HasPrefix(res.Content, []byte("%PDF")))
	})

	t.Run("cancelled bookings have none", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(model.StatusCancelled, model.PaymentRefunded, 48*time.Hour), nil)

		_, err := f.svc.Ticket(context.Background(), customer, "b-1")
		require.Error(t, err)
		assert.Equal(t, failure.KindConflict, failure.GetKind(err))
	})
}
