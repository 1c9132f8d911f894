package repository_test

import (
	"context"
	"errors"
	"testing"

	"boatbook/infras/otel/mocks"
	"boatbook/infras/postgres"
	"boatbook/internal/domains/schedule/model"
	"boatbook/internal/domains/schedule/repository"
	"boatbook/shared/failure"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ledgerColumns = []string{"id", "capacity", "available_seats", "status"}

func newLedger(t *testing.T) (repository.Schedule, *sqlx.Tx, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	conn := &postgres.Connection{
		Read:  sqlx.NewDb(db, "postgres"),
		Write: sqlx.NewDb(db, "postgres"),
	}

	mock.ExpectBegin()

	tx, err := conn.Write.Beginx()
	require.NoError(t, err)

	return repository.New(conn, mocks.NewOtel()), tx, mock
}

func TestSchedule_ReserveTx(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		setupMock func(mock sqlmock.Sqlmock)
		want      model.Ledger
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name:  "seats taken",
			count: 3,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("UPDATE trip_schedules").
					WithArgs("s-1", 3, sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows(ledgerColumns).AddRow("s-1", 10, 7, model.StatusScheduled))
			},
			want: model.Ledger{ID: "s-1", Capacity: 10, AvailableSeats: 7, Status: model.StatusScheduled},
		},
		{
			name:  "not enough seats",
			count: 11,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("UPDATE trip_schedules").
					WithArgs("s-1", 11, sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows(ledgerColumns))
				mock.ExpectQuery("SELECT id, capacity, available_seats, status").
					WithArgs("s-1").
					WillReturnRows(sqlmock.NewRows(ledgerColumns).AddRow("s-1", 10, 10, model.StatusScheduled))
			},
			wantErr:  true,
			wantKind: failure.KindCapacity,
		},
		{
			name:  "schedule cancelled",
			count: 1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("UPDATE trip_schedules").
					WillReturnRows(sqlmock.NewRows(ledgerColumns))
				mock.ExpectQuery("SELECT id, capacity, available_seats, status").
					WillReturnRows(sqlmock.NewRows(ledgerColumns).AddRow("s-1", 10, 10, model.StatusCancelled))
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
		{
			name:  "schedule missing",
			count: 1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("UPDATE trip_schedules").
					WillReturnRows(sqlmock.NewRows(ledgerColumns))
				mock.ExpectQuery("SELECT id, capacity, available_seats, status").
					WillReturnRows(sqlmock.NewRows(ledgerColumns))
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
		{
			name:  "store failure",
			count: 1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("UPDATE trip_schedules").
					WillReturnError(errors.New("connection reset"))
			},
			wantErr:  true,
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, tx, mock := newLedger(t)
			tt.setupMock(mock)

			got, err := repo.ReserveTx(context.Background(), tx, "s-1", tt.count, model.BookableStatuses)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSchedule_ReleaseTx(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      int
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "full release",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("WITH prior AS").
					WithArgs("s-1", 3, sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"released"}).AddRow(3))
			},
			want: 3,
		},
		{
			name: "capped at capacity",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("WITH prior AS").
					WithArgs("s-1", 3, sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"released"}).AddRow(1))
			},
			want: 1,
		},
		{
			name: "schedule missing",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("WITH prior AS").
					WillReturnRows(sqlmock.NewRows([]string{"released"}))
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, tx, mock := newLedger(t)
			tt.setupMock(mock)

			got, err := repo.ReleaseTx(context.Background(), tx, "s-1", 3)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSchedule_ResizeTx(t *testing.T) {
	tests := []struct {
		name      string
		capacity  int
		setupMock func(mock sqlmock.Sqlmock)
		want      model.Ledger
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name:     "grow keeps reservations",
			capacity: 12,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("UPDATE trip_schedules").
					WithArgs("s-1", 12, sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows(ledgerColumns).AddRow("s-1", 12, 9, model.StatusScheduled))
			},
			want: model.Ledger{ID: "s-1", Capacity: 12, AvailableSeats: 9, Status: model.StatusScheduled},
		},
		{
			name:     "shrink below reserved",
			capacity: 2,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("UPDATE trip_schedules").
					WithArgs("s-1", 2, sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows(ledgerColumns))
				mock.ExpectQuery("SELECT id, capacity, available_seats, status").
					WillReturnRows(sqlmock.NewRows(ledgerColumns).AddRow("s-1", 10, 7, model.StatusScheduled))
			},
			wantErr:  true,
			wantKind: failure.KindCapacity,
		},
		{
			name:     "schedule missing",
			capacity: 5,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("UPDATE trip_schedules").
					WillReturnRows(sqlmock.NewRows(ledgerColumns))
				mock.ExpectQuery("SELECT id, capacity, available_seats, status").
					WillReturnRows(sqlmock.NewRows(ledgerColumns))
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, tx, mock := newLedger(t)
			tt.setupMock(mock)

			got, err := repo.ResizeTx(context.Background(), tx, "s-1", tt.capacity)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
