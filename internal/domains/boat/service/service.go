package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Boat=MockBoatService

import (
	"context"
	"fmt"

	"boatbook/infras/otel"
	"boatbook/internal/domains/boat/model"
	"boatbook/internal/domains/boat/model/dto"
	"boatbook/internal/domains/boat/repository"
	"boatbook/shared/actor"
	"boatbook/shared/constant"
	gDto "boatbook/shared/dto"

	"github.com/rs/zerolog/log"
)

type Boat interface {
	Create(ctx context.Context, act actor.Actor, req dto.CreateBoatRequest) (string, error)
	GetAvailable(ctx context.Context) (dto.GetBoatsResponse, error)
}

type serviceImpl struct {
	repo repository.Boat
	otel otel.Otel
}

func New(repo repository.Boat, otel otel.Otel) Boat {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, act actor.Actor, req dto.CreateBoatRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	boat := req.ToModel(act.UserID)

	if err = s.repo.Insert(ctx, boat); err != nil {
		log.Error().Err(err).Msg("failed to create boat")

		return id, fmt.Errorf("failed to create boat: %w", err)
	}

	return boat.ID, nil
}

// GetAvailable lists boats that can be assigned to a schedule, by name.
func (s *serviceImpl) GetAvailable(ctx context.Context) (res dto.GetBoatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAvailable")
	defer scope.End()
	defer scope.TraceIfError(err)

	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + model.FieldName,
		SortDir: gDto.SortDirAsc,
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldIsAvailable,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.TableName,
			},
		},
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get boats")

		return res, fmt.Errorf("failed to get boats: %w", err)
	}

	res.FromModels(models)

	return res, nil
}
