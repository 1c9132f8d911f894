package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"boatbook/infras/otel"
	"boatbook/infras/postgres"
	"boatbook/internal/domains/notification/model"
	"boatbook/shared/constant"
	gDto "boatbook/shared/dto"
	"boatbook/shared/logger"
	gRepo "boatbook/shared/repository"
	"boatbook/shared/timezone"
)

const queryRecordFailure = `UPDATE notifications
SET attempts = attempts + 1, last_error = $2, modified_at = $3
WHERE id = $1`

type Notification interface {
	Insert(ctx context.Context, model model.Notification) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Notification, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	// RecordFailure bumps the delivery attempt counter of an outbox row.
	RecordFailure(ctx context.Context, id string, lastError string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Notification]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Notification {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Notification](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) RecordFailure(ctx context.Context, id string, lastError string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification.RecordFailure")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryRecordFailure)

	if _, err := r.db.Write.ExecContext(ctx, queryRecordFailure, id, lastError, timezone.Now()); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to record delivery failure (%s): %w", model.EntityName, err)
	}

	return nil
}
