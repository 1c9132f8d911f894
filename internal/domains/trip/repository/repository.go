package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"boatbook/infras/otel"
	"boatbook/infras/postgres"
	"boatbook/internal/domains/trip/model"
	gDto "boatbook/shared/dto"
	gRepo "boatbook/shared/repository"
)

type Trip interface {
	Insert(ctx context.Context, model model.Trip) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Trip, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Trip, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Trip]
}

func New(db *postgres.Connection, otel otel.Otel) Trip {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Trip](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
