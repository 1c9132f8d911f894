package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"boatbook/config"
	"boatbook/infras/kafka"
	kafkaMocks "boatbook/infras/kafka/mocks"
	"boatbook/infras/otel/mocks"
	notificationMocks "boatbook/internal/domains/notification/mocks"
	"boatbook/internal/domains/notification/model"
	"boatbook/internal/domains/notification/model/dto"
	"boatbook/internal/domains/notification/service"
	gDto "boatbook/shared/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func relayConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Outbox.Topic = "boatbook.notifications"
	cfg.Outbox.BatchSize = 50
	cfg.Outbox.MaxAttempts = 10
	cfg.Outbox.PollIntervalSeconds = 1

	return cfg
}

func TestRelay_Flush(t *testing.T) {
	pending := []model.Notification{
		{ID: "n-1", UserID: "user-1", Title: "Booking Created", Type: model.TypeBooking},
		{ID: "n-2", UserID: "user-2", Title: "Payment Failed", Type: model.TypePayment, Attempts: 3},
	}

	tests := []struct {
		name          string
		setupMock     func(repo *notificationMocks.MockNotification, pub *kafkaMocks.MockPublisher)
		wantPublished int
		wantErr       bool
	}{
		{
			name: "publishes every pending row keyed by user",
			setupMock: func(repo *notificationMocks.MockNotification, pub *kafkaMocks.MockPublisher) {
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Notification, error) {
						assert.Equal(t, 50, params.Limit)
						assert.Equal(t, gDto.SortDirAsc, params.SortDir)

						where, args := filter.GetWhereClause()
						assert.Equal(t, "(notifications.published_at IS NULL AND notifications.attempts <= :attempts)", where)
						assert.Equal(t, 9, args[model.FieldAttempts])

						return pending, nil
					})

				pub.EXPECT().Publish(gomock.Any(), "boatbook.notifications", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
						require.Len(t, messages, 1)

						event, ok := messages[0].Value.(dto.Event)
						require.True(t, ok)
						assert.Equal(t, messages[0].Key, event.UserID)

						return nil
					}).Times(2)

				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Contains(t, fields, model.FieldPublishedAt)

						return nil
					}).Times(2)
			},
			wantPublished: 2,
		},
		{
			name: "failed publish records the attempt and continues",
			setupMock: func(repo *notificationMocks.MockNotification, pub *kafkaMocks.MockPublisher) {
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(pending, nil)

				gomock.InOrder(
					pub.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker unavailable")),
					pub.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
				)

				repo.EXPECT().RecordFailure(gomock.Any(), "n-1", "broker unavailable").Return(nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantPublished: 1,
		},
		{
			name: "nothing pending",
			setupMock: func(repo *notificationMocks.MockNotification, pub *kafkaMocks.MockPublisher) {
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
		},
		{
			name: "outbox query fails",
			setupMock: func(repo *notificationMocks.MockNotification, pub *kafkaMocks.MockPublisher) {
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := notificationMocks.NewMockNotification(ctrl)
			pub := kafkaMocks.NewMockPublisher(ctrl)
			tt.setupMock(repo, pub)

			relay := service.NewRelay(repo, pub, relayConfig(), mocks.NewOtel())

			published, err := relay.Flush(context.Background())
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantPublished, published)
		})
	}
}

func TestRelay_RunStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := notificationMocks.NewMockNotification(ctrl)
	pub := kafkaMocks.NewMockPublisher(ctrl)

	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).MinTimes(1)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		done <- service.NewRelay(repo, pub, relayConfig(), mocks.NewOtel()).Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop after cancel")
	}
}
