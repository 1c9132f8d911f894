package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"boatbook/infras/otel/mocks"
	"boatbook/infras/postgres"
	"boatbook/shared/dto"
	"boatbook/shared/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vessel struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Capacity  int    `db:"capacity"`
	OwnerName string `db:"owner_name" table:"users" column:"name"`
	Note      string `db:"-"`
}

func (vessel) GetJoinQuery() string {
	return "LEFT JOIN users ON users.id = boats.owner_id"
}

func newRepository(t *testing.T) (repository.Repository[vessel], *postgres.Connection, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	conn := &postgres.Connection{
		Read:  sqlx.NewDb(db, "postgres"),
		Write: sqlx.NewDb(db, "postgres"),
	}

	return repository.NewRepository[vessel]("boat", "boats", "id", conn, mocks.NewOtel()), conn, mock
}

func byID(id string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "id", Operator: dto.FilterOperatorEq, Value: id, Table: "boats"},
		},
	}
}

func TestRepository_InsertColumns(t *testing.T) {
	repo, _, _ := newRepository(t)

	assert.Equal(t, []string{"id", "name", "capacity"}, repo.InsertColumns)
}

func TestRepository_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      vessel
		wantErr   bool
	}{
		{
			name: "found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectPrepare(regexp.QuoteMeta("SELECT boats.id, boats.name, boats.capacity, users.name AS owner_name FROM boats LEFT JOIN users ON users.id = boats.owner_id")).
					ExpectQuery().
					WithArgs("b-1").
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "owner_name"}).AddRow("b-1", "Coral", 12, "Ayu"))
			},
			want: vessel{ID: "b-1", Name: "Coral", Capacity: 12, OwnerName: "Ayu"},
		},
		{
			name: "no rows yields zero value",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectPrepare("SELECT .* FROM boats").
					ExpectQuery().
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
		},
		{
			name: "query error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectPrepare("SELECT .* FROM boats").
					ExpectQuery().
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, mock := newRepository(t)
			tt.setupMock(mock)

			got, err := repo.Get(context.Background(), byID("b-1"))

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_GetForUpdateTx(t *testing.T) {
	repo, conn, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("FOR UPDATE OF boats$").
		ExpectQuery().
		WithArgs("b-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "capacity"}).AddRow("b-1", 8))
	mock.ExpectRollback()

	tx, err := conn.Write.Beginx()
	require.NoError(t, err)

	got, err := repo.GetForUpdateTx(context.Background(), tx, byID("b-1"), "id", "capacity")
	require.NoError(t, err)
	assert.Equal(t, 8, got.Capacity)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE boats SET capacity = $1, name = $2")).
		WithArgs(14, "Coral II", "b-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), map[string]any{"name": "Coral II", "capacity": 14}, byID("b-1"))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ExistRequiresFilter(t *testing.T) {
	repo, _, _ := newRepository(t)

	_, err := repo.Exist(context.Background(), dto.FilterGroup{})

	assert.Error(t, err)
}

func TestRepository_ExistTx(t *testing.T) {
	repo, conn, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM boats")).
		ExpectQuery().
		WithArgs("b-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	tx, err := conn.Write.Beginx()
	require.NoError(t, err)

	exist, err := repo.ExistTx(context.Background(), tx, byID("b-1"))
	require.NoError(t, err)
	assert.True(t, exist)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_WithTx(t *testing.T) {
	tests := []struct {
		name      string
		fn        repository.TxFunc
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
	}{
		{
			name: "commit",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				_, err := tx.ExecContext(ctx, "UPDATE trip_schedules SET available_seats = available_seats - 1")

				return err
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE trip_schedules").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "rollback on error",
			fn: func(context.Context, *sqlx.Tx) error {
				return errors.New("not enough seats")
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			wantErr: true,
		},
		{
			name: "begin fails",
			fn: func(context.Context, *sqlx.Tx) error {
				return nil
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, conn, mock := newRepository(t)
			tt.setupMock(mock)

			err := repository.NewTransactor(conn, mocks.NewOtel()).WithTx(context.Background(), tt.fn)

			assert.Equal(t, tt.wantErr, err != nil)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
