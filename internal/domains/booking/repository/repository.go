package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"boatbook/infras/otel"
	"boatbook/infras/postgres"
	"boatbook/internal/domains/booking/model"
	gDto "boatbook/shared/dto"
	gRepo "boatbook/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	// GetForUpdateTx locks the booking row, serialising transitions of the same booking.
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	ExistTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type Passenger interface {
	InsertBulkTx(ctx context.Context, tx *sqlx.Tx, models []model.Passenger) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Passenger, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

type passengerRepositoryImpl struct {
	gRepo.Repository[model.Passenger]
}

func NewPassenger(db *postgres.Connection, otel otel.Otel) Passenger {
	return &passengerRepositoryImpl{
		Repository: gRepo.NewRepository[model.Passenger](model.PassengerEntityName, model.PassengerTableName, model.FieldID, db, otel),
	}
}
