package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"boatbook/infras/otel"
	"boatbook/infras/postgres"
	"boatbook/internal/domains/boat/model"
	gDto "boatbook/shared/dto"
	gRepo "boatbook/shared/repository"
)

type Boat interface {
	Insert(ctx context.Context, model model.Boat) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Boat, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Boat, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Boat]
}

func New(db *postgres.Connection, otel otel.Otel) Boat {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Boat](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
