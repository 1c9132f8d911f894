package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Notification=MockNotificationService

import (
	"context"
	"fmt"

	"boatbook/infras/otel"
	"boatbook/internal/domains/notification/model"
	"boatbook/internal/domains/notification/model/dto"
	"boatbook/internal/domains/notification/repository"
	"boatbook/shared"
	"boatbook/shared/actor"
	"boatbook/shared/constant"
	gDto "boatbook/shared/dto"
	"boatbook/shared/failure"

	"github.com/rs/zerolog/log"
)

const listLimit = 20

type Notification interface {
	Enqueue(ctx context.Context, req dto.EnqueueRequest) error
	GetAll(ctx context.Context, act actor.Actor) (dto.GetNotificationsResponse, error)
	MarkRead(ctx context.Context, act actor.Actor, id string) error
}

type serviceImpl struct {
	repo repository.Notification
	otel otel.Otel
}

func New(repo repository.Notification, otel otel.Otel) Notification {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

// Enqueue stores the notification as an unpublished outbox row.
func (s *serviceImpl) Enqueue(ctx context.Context, req dto.EnqueueRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Enqueue")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.repo.Insert(ctx, req.ToModel()); err != nil {
		log.Error().Err(err).Str("user_id", req.UserID).Str("title", req.Title).Msg("failed to enqueue notification")

		return fmt.Errorf("failed to enqueue notification: %w", err)
	}

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, act actor.Actor) (res dto.GetNotificationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	params := gDto.QueryParams{
		Limit:   listLimit,
		SortBy:  model.TableName + "." + constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}

	models, err := s.repo.GetAll(ctx, params, shared.FilterByID(act.UserID, model.FieldUserID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get notifications")

		return res, fmt.Errorf("failed to get notifications: %w", err)
	}

	res.FromModels(models)

	return res, nil
}

// MarkRead only touches notifications addressed to the actor.
func (s *serviceImpl) MarkRead(ctx context.Context, act actor.Actor, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkRead")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    act.UserID,
				Table:    model.TableName,
			},
		},
	}

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if notification exists")

		return fmt.Errorf("failed to check if notification exists: %w", err)
	}

	if !exist {
		return failure.NotFound("notification not found")
	}

	if err = s.repo.Update(ctx, shared.TransformFields(dto.MarkReadRequest{IsRead: true}, act.UserID), filter); err != nil {
		log.Error().Err(err).Msg("failed to mark notification as read")

		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	return nil
}
