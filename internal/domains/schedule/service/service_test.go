package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"boatbook/config"
	"boatbook/infras/otel/mocks"
	boatMocks "boatbook/internal/domains/boat/mocks"
	bookingMocks "boatbook/internal/domains/booking/mocks"
	bookingModel "boatbook/internal/domains/booking/model"
	notificationMocks "boatbook/internal/domains/notification/mocks"
	notificationDto "boatbook/internal/domains/notification/model/dto"
	scheduleMocks "boatbook/internal/domains/schedule/mocks"
	"boatbook/internal/domains/schedule/model"
	"boatbook/internal/domains/schedule/model/dto"
	"boatbook/internal/domains/schedule/service"
	tripMocks "boatbook/internal/domains/trip/mocks"
	tripModel "boatbook/internal/domains/trip/model"
	userMocks "boatbook/internal/domains/user/mocks"
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
	repo         *scheduleMocks.MockSchedule
	trips        *tripMocks.MockTrip
	boats        *boatMocks.MockBoat
	users        *userMocks.MockUser
	bookings     *bookingMocks.MockBooking
	notification *notificationMocks.MockNotificationService
	transactor   *repoMocks.MockTransactor
	cache        *cacheMocks.MockRedisCache
	svc          service.Schedule
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:         scheduleMocks.NewMockSchedule(ctrl),
		trips:        tripMocks.NewMockTrip(ctrl),
		boats:        boatMocks.NewMockBoat(ctrl),
		users:        userMocks.NewMockUser(ctrl),
		bookings:     bookingMocks.NewMockBooking(ctrl),
		notification: notificationMocks.NewMockNotificationService(ctrl),
		transactor:   repoMocks.NewMockTransactor(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
	}

	f.svc = service.New(f.repo, f.trips, f.boats, f.users, f.bookings, f.notification, f.transactor, &config.Config{}, f.cache, mocks.NewOtel())

	f.transactor.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn repository.TxFunc) error {
		return fn(ctx, nil)
	}).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

var (
	admin      = actor.New("admin-1", constant.RoleAdmin)
	operations = actor.New("ops-1", constant.RoleOperations)
	customer   = actor.New("cust-1", constant.RoleCustomer)
)

func ptr[T any](v T) *T {
	return &v
}

func TestScheduleService_Create(t *testing.T) {
	req := dto.CreateScheduleRequest{
		TripID:        "trip-1",
		ScheduledDate: "2026-11-01",
		DepartureTime: "08:30",
		Seats:         10,
	}

	tests := []struct {
		name      string
		act       actor.Actor
		req       dto.CreateScheduleRequest
		setupMock func(f fixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "opens every seat",
			act:  admin,
			req:  req,
			setupMock: func(f fixture) {
				f.trips.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tripModel.Trip{ID: "trip-1", IsActive: true}, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, schedule model.Schedule) error {
					assert.Equal(t, 10, schedule.Capacity)
					assert.Equal(t, 10, schedule.AvailableSeats)
					assert.Equal(t, model.StatusScheduled, schedule.Status)
					assert.Equal(t, "08:30:00", schedule.DepartureTime.String())
					assert.Empty(t, schedule.ReturnTime.String())

					return nil
				})
			},
		},
		{
			name: "inactive trip",
			act:  admin,
			req:  req,
			setupMock: func(f fixture) {
				f.trips.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tripModel.Trip{ID: "trip-1"}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
		{
			name:      "operations cannot create",
			act:       operations,
			req:       req,
			setupMock: func(fixture) {},
			wantErr:   true,
			wantKind:  failure.KindPermission,
		},
		{
			name: "insert fails",
			act:  admin,
			req:  req,
			setupMock: func(f fixture) {
				f.trips.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tripModel.Trip{ID: "trip-1", IsActive: true}, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantErr:  true,
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			id, err := f.svc.Create(context.Background(), tt.act, tt.req)
			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, id)
		})
	}
}

func TestScheduleService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		want      dto.ScheduleResponse
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "cache hit",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "schedule:get:s-1", gomock.Any()).Return(nil)
			},
		},
		{
			name: "from store",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Schedule{
					ID:             "s-1",
					TripTitle:      "Island Hopping",
					ScheduledDate:  time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
					DepartureTime:  "08:30:00",
					Capacity:       10,
					AvailableSeats: 7,
					Status:         model.StatusScheduled,
				}, nil)
			},
			want: dto.ScheduleResponse{
				ID:             "s-1",
				TripTitle:      "Island Hopping",
				ScheduledDate:  "2026-11-01",
				DepartureTime:  "08:30",
				Capacity:       10,
				AvailableSeats: 7,
				Status:         model.StatusScheduled,
			},
		},
		{
			name: "missing",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Schedule{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), "s-1")
			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want.ID, res.ID)
			assert.Equal(t, tt.want.ScheduledDate, res.ScheduledDate)
			assert.Equal(t, tt.want.DepartureTime, res.DepartureTime)
			assert.Equal(t, tt.want.AvailableSeats, res.AvailableSeats)
		})
	}
}

func TestScheduleService_Update(t *testing.T) {
	current := model.Schedule{ID: "s-1", Capacity: 10, AvailableSeats: 7, Status: model.StatusScheduled}

	tests := []struct {
		name      string
		act       actor.Actor
		req       dto.UpdateScheduleRequest
		setupMock func(f fixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "resize keeps reservations",
			act:  admin,
			req:  dto.UpdateScheduleRequest{Capacity: ptr(12), DepartureTime: ptr("09:00")},
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(current, nil)
				f.repo.EXPECT().ResizeTx(gomock.Any(), gomock.Any(), "s-1", 12).Return(model.Ledger{ID: "s-1", Capacity: 12, AvailableSeats: 9}, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, timezone.Clock("09:00:00"), fields[model.FieldDepartureTime])
					assert.NotContains(t, fields, model.FieldCapacity)

					return nil
				})
			},
		},
		{
			name: "shrink below reserved seats",
			act:  admin,
			req:  dto.UpdateScheduleRequest{Capacity: ptr(2)},
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(current, nil)
				f.repo.EXPECT().ResizeTx(gomock.Any(), gomock.Any(), "s-1", 2).Return(model.Ledger{}, failure.Capacity("capacity cannot be lower than the 3 seats already booked"))
			},
			wantErr:  true,
			wantKind: failure.KindCapacity,
		},
		{
			name: "missing schedule",
			act:  admin,
			req:  dto.UpdateScheduleRequest{Status: ptr(model.StatusCompleted)},
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Schedule{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
		{
			name:      "empty request",
			act:       admin,
			setupMock: func(fixture) {},
			wantErr:   true,
			wantKind:  failure.KindValidation,
		},
		{
			name:      "customer cannot update",
			act:       customer,
			req:       dto.UpdateScheduleRequest{Capacity: ptr(12)},
			setupMock: func(fixture) {},
			wantErr:   true,
			wantKind:  failure.KindPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Update(context.Background(), tt.act, tt.req, "s-1")
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

func TestScheduleService_Delete(t *testing.T) {
	locked := model.Schedule{ID: "s-1", Status: model.StatusScheduled}

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "no bookings",
			setupMock: func(f fixture) {
				gomock.InOrder(
					f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(locked, nil),
					f.bookings.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).Times(2),
					f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
				)
			},
		},
		{
			name: "only cancelled bookings retires the schedule under the row lock",
			setupMock: func(f fixture) {
				gomock.InOrder(
					f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(locked, nil),
					f.bookings.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (bool, error) {
						where, args := filter.GetWhereClause()
						assert.Contains(t, where, "!=")
						assert.Contains(t, args, bookingModel.FieldScheduleID)

						return false, nil
					}),
					f.bookings.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil),
					f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])
						assert.Equal(t, admin.UserID, fields[constant.FieldModifiedBy])

						return nil
					}),
				)
			},
		},
		{
			name: "active bookings",
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(locked, nil)
				f.bookings.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  true,
			wantKind: failure.KindConflict,
		},
		{
			name: "retire failure surfaces as internal",
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(locked, nil)
				f.bookings.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.bookings.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError)
			},
			wantErr:  true,
			wantKind: failure.KindInternal,
		},
		{
			name: "missing",
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Schedule{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(context.Background(), admin, "s-1")
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

func TestScheduleService_Assign(t *testing.T) {
	schedule := model.Schedule{
		ID:            "s-1",
		TripTitle:     "Island Hopping",
		ScheduledDate: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		DepartureTime: "08:30:00",
		Status:        model.StatusScheduled,
	}

	tests := []struct {
		name      string
		act       actor.Actor
		req       dto.AssignRequest
		setupMock func(f fixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "boat and guide",
			act:  operations,
			req:  dto.AssignRequest{BoatID: "boat-1", GuideID: "guide-1"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(schedule, nil)
				f.boats.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, model.StatusConfirmed, fields[model.FieldStatus])
					assert.Equal(t, "boat-1", fields[model.FieldBoatID])
					assert.Equal(t, "guide-1", fields[model.FieldGuideID])

					return nil
				})
				f.notification.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req notificationDto.EnqueueRequest) error {
					assert.Equal(t, "guide-1", req.UserID)
					assert.Equal(t, "New Assignment", req.Title)
					assert.Equal(t, `You have been assigned to guide "Island Hopping" on 2026-11-01 at 08:30`, req.Message)

					return nil
				})
			},
		},
		{
			name: "notification failure does not fail the assignment",
			act:  admin,
			req:  dto.AssignRequest{GuideID: "guide-1"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(schedule, nil)
				f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.notification.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
		},
		{
			name: "boat only sends nothing",
			act:  admin,
			req:  dto.AssignRequest{BoatID: "boat-1"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(schedule, nil)
				f.boats.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "user is not a guide",
			act:  admin,
			req:  dto.AssignRequest{GuideID: "cust-1"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(schedule, nil)
				f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
		{
			name:      "nothing to assign",
			act:       admin,
			setupMock: func(fixture) {},
			wantErr:   true,
			wantKind:  failure.KindValidation,
		},
		{
			name:      "customer cannot assign",
			act:       customer,
			req:       dto.AssignRequest{GuideID: "guide-1"},
			setupMock: func(fixture) {},
			wantErr:   true,
			wantKind:  failure.KindPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Assign(context.Background(), tt.act, tt.req, "s-1")
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
