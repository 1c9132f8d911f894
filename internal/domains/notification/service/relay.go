package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boatbook/config"
	"boatbook/infras/kafka"
	"boatbook/infras/otel"
	"boatbook/internal/domains/notification/model"
	"boatbook/internal/domains/notification/model/dto"
	"boatbook/internal/domains/notification/repository"
	"boatbook/shared"
	"boatbook/shared/constant"
	gDto "boatbook/shared/dto"
	"boatbook/shared/timezone"

	"github.com/rs/zerolog/log"
)

const headerNotificationType = "notification-type"

// Relay publishes unpublished notification rows to Kafka. Delivery is at-least-once:
// a row published but not marked is sent again on the next pass.
type Relay interface {
	Run(ctx context.Context) error
	Flush(ctx context.Context) (int, error)
}

type relayImpl struct {
	repo      repository.Notification
	publisher kafka.Publisher
	cfg       *config.Config
	otel      otel.Otel
}

func NewRelay(repo repository.Notification, publisher kafka.Publisher, cfg *config.Config, otel otel.Otel) Relay {
	return &relayImpl{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		otel:      otel,
	}
}

// Run flushes the outbox every poll interval until ctx is cancelled.
func (r *relayImpl) Run(ctx context.Context) error {
	interval := time.Duration(r.cfg.Outbox.PollIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Str("topic", r.cfg.Outbox.Topic).Msg("notification relay started")

	for {
		if _, err := r.Flush(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("failed to flush notification outbox")
		}

		select {
		case <-ctx.Done():
			log.Info().Msg("notification relay stopped")

			return nil
		case <-ticker.C:
		}
	}
}

// Flush publishes one batch and returns how many rows were marked published.
func (r *relayImpl) Flush(ctx context.Context) (published int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Flush")
	defer scope.End()
	defer scope.TraceIfError(err)

	pending, err := r.repo.GetAll(ctx, r.pendingParams(), r.pendingFilter())
	if err != nil {
		log.Error().Err(err).Msg("failed to get pending notifications")

		return 0, fmt.Errorf("failed to get pending notifications: %w", err)
	}

	for _, notification := range pending {
		if err := ctx.Err(); err != nil {
			return published, err
		}

		var event dto.Event
		event.FromModel(notification)

		message := kafka.Message{
			Key:     notification.UserID,
			Value:   event,
			Headers: map[string]string{headerNotificationType: notification.Type},
		}

		if err := r.publisher.Publish(ctx, r.cfg.Outbox.Topic, message); err != nil {
			log.Warn().Err(err).Str("notification_id", notification.ID).Int("attempts", notification.Attempts+1).Msg("failed to publish notification")

			if recErr := r.repo.RecordFailure(ctx, notification.ID, err.Error()); recErr != nil {
				log.Error().Err(recErr).Str("notification_id", notification.ID).Msg("failed to record notification failure")
			}

			continue
		}

		mark := dto.MarkPublishedRequest{PublishedAt: timezone.Now()}
		filter := shared.FilterByID(notification.ID, model.FieldID, model.TableName)

		if err := r.repo.Update(ctx, shared.TransformFields(mark, constant.ContextSystem), filter); err != nil {
			log.Error().Err(err).Str("notification_id", notification.ID).Msg("failed to mark notification published")

			continue
		}

		published++
	}

	scope.SetAttribute("outbox.published", published)

	return published, nil
}

func (r *relayImpl) pendingParams() gDto.QueryParams {
	return gDto.QueryParams{
		Limit:   r.cfg.Outbox.BatchSize,
		SortBy:  model.TableName + "." + constant.FieldCreatedAt,
		SortDir: gDto.SortDirAsc,
	}
}

func (r *relayImpl) pendingFilter() gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldPublishedAt,
				Operator: gDto.FilterIsNull,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldAttempts,
				Operator: gDto.FilterOperatorLessEq,
				Value:    r.cfg.Outbox.MaxAttempts - 1,
				Table:    model.TableName,
			},
		},
	}
}
