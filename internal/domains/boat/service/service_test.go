package service_test

import (
	"context"
	"errors"
	"testing"

	"boatbook/infras/otel/mocks"
	boatMocks "boatbook/internal/domains/boat/mocks"
	"boatbook/internal/domains/boat/model"
	"boatbook/internal/domains/boat/model/dto"
	"boatbook/internal/domains/boat/service"
	"boatbook/shared/actor"
	"boatbook/shared/constant"
	gDto "boatbook/shared/dto"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestBoatService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := boatMocks.NewMockBoat(ctrl)
	svc := service.New(mockRepo, mocks.NewOtel())

	act := actor.New("admin-1", constant.RoleAdmin)
	req := dto.CreateBoatRequest{Name: "Kembara", Capacity: 20}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "creates available boat",
			setupMock: func() {
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, boat model.Boat) error {
					assert.True(t, boat.IsAvailable)
					assert.Equal(t, "admin-1", boat.CreatedBy)

					return nil
				})
			},
		},
		{
			name: "insert fails",
			setupMock: func() {
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			id, err := svc.Create(context.Background(), act, req)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, id)
		})
	}
}

func TestBoatService_GetAvailable(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := boatMocks.NewMockBoat(ctrl)
	svc := service.New(mockRepo, mocks.NewOtel())

	mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Boat, error) {
			assert.Equal(t, "boats.name", params.SortBy)
			assert.Equal(t, gDto.SortDirAsc, params.SortDir)

			where, args := filter.GetWhereClause()
			assert.Equal(t, "(boats.is_available = :is_available)", where)
			assert.Equal(t, true, args[model.FieldIsAvailable])

			return []model.Boat{{ID: "boat-1", Name: "Kembara", IsAvailable: true}}, nil
		})

	res, err := svc.GetAvailable(context.Background())

	assert.NoError(t, err)
	assert.Len(t, res.Boats, 1)
	assert.Equal(t, "Kembara", res.Boats[0].Name)
}
