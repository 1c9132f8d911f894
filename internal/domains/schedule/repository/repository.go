package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"boatbook/infras/otel"
	"boatbook/infras/postgres"
	"boatbook/internal/domains/schedule/model"
	"boatbook/shared/constant"
	gDto "boatbook/shared/dto"
	"boatbook/shared/failure"
	"boatbook/shared/logger"
	gRepo "boatbook/shared/repository"
	"boatbook/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	queryLedger = `SELECT id, capacity, available_seats, status
FROM trip_schedules
WHERE id = $1`

	queryReserve = `UPDATE trip_schedules
SET available_seats = available_seats - $2, modified_at = $4
WHERE id = $1 AND status = ANY($3) AND available_seats >= $2
RETURNING id, capacity, available_seats, status`

	queryRelease = `WITH prior AS (
	SELECT id, available_seats FROM trip_schedules WHERE id = $1 FOR UPDATE
)
UPDATE trip_schedules AS ts
SET available_seats = LEAST(ts.capacity, ts.available_seats + $2), modified_at = $3
FROM prior
WHERE ts.id = prior.id
RETURNING ts.available_seats - prior.available_seats AS released`

	queryResize = `UPDATE trip_schedules
SET capacity = $2, available_seats = $2 - (capacity - available_seats), modified_at = $3
WHERE id = $1 AND capacity - available_seats <= $2
RETURNING id, capacity, available_seats, status`
)

type Schedule interface {
	Insert(ctx context.Context, model model.Schedule) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Schedule, error)
	GetTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Schedule, error)
	// GetForUpdateTx locks the schedule row. ReserveTx on the same row waits for the lock.
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Schedule, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Schedule, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) error
	// ReserveTx takes count seats in one conditional statement. The schedule must be in
	// one of statuses and hold at least count free seats.
	ReserveTx(ctx context.Context, tx *sqlx.Tx, id string, count int, statuses []string) (model.Ledger, error)
	// ReleaseTx credits back count seats, capped at capacity, and returns how many were credited.
	ReleaseTx(ctx context.Context, tx *sqlx.Tx, id string, count int) (int, error)
	// ResizeTx changes capacity while keeping the reserved seats reserved.
	ResizeTx(ctx context.Context, tx *sqlx.Tx, id string, capacity int) (model.Ledger, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Schedule]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Schedule {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Schedule](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) ledgerTx(ctx context.Context, tx *sqlx.Tx, id string) (ledger model.Ledger, found bool, err error) {
	err = tx.GetContext(ctx, &ledger, queryLedger, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger, false, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return ledger, false, fmt.Errorf("failed to read seat ledger (%s): %w", model.EntityName, err)
	}

	return ledger, true, nil
}

func (r *repositoryImpl) ReserveTx(ctx context.Context, tx *sqlx.Tx, id string, count int, statuses []string) (ledger model.Ledger, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".schedule.ReserveTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryReserve)

	err = tx.QueryRowxContext(ctx, queryReserve, id, count, pq.Array(statuses), timezone.Now()).StructScan(&ledger)
	if err == nil {
		return ledger, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		logger.ErrorWithStack(err)

		return ledger, fmt.Errorf("failed to reserve seats (%s): %w", model.EntityName, err)
	}

	current, found, err := r.ledgerTx(ctx, tx, id)
	if err != nil {
		return ledger, err
	}

	if !found || !slices.Contains(statuses, current.Status) {
		return ledger, failure.NotFound("schedule not found or not available for booking")
	}

	return current, failure.Capacity(fmt.Sprintf("only %d seats available", current.AvailableSeats))
}

func (r *repositoryImpl) ReleaseTx(ctx context.Context, tx *sqlx.Tx, id string, count int) (released int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".schedule.ReleaseTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryRelease)

	err = tx.QueryRowxContext(ctx, queryRelease, id, count, timezone.Now()).Scan(&released)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, failure.NotFound("schedule not found")
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to release seats (%s): %w", model.EntityName, err)
	}

	return released, nil
}

func (r *repositoryImpl) ResizeTx(ctx context.Context, tx *sqlx.Tx, id string, capacity int) (ledger model.Ledger, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".schedule.ResizeTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryResize)

	err = tx.QueryRowxContext(ctx, queryResize, id, capacity, timezone.Now()).StructScan(&ledger)
	if err == nil {
		return ledger, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		logger.ErrorWithStack(err)

		return ledger, fmt.Errorf("failed to resize schedule (%s): %w", model.EntityName, err)
	}

	current, found, err := r.ledgerTx(ctx, tx, id)
	if err != nil {
		return ledger, err
	}

	if !found {
		return ledger, failure.NotFound("schedule not found")
	}

	return current, failure.Capacity(fmt.Sprintf("capacity cannot be lower than the %d seats already booked", current.Capacity-current.AvailableSeats))
}
