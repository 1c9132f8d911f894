package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"boatbook/config"
	"boatbook/infras/otel/mocks"
	userMocks "boatbook/internal/domains/user/mocks"
	"boatbook/internal/domains/user/model"
	"boatbook/internal/domains/user/model/dto"
	"boatbook/internal/domains/user/service"
	"boatbook/shared/actor"
	cacheMocks "boatbook/shared/cache/mocks"
	"boatbook/shared/constant"
	gDto "boatbook/shared/dto"
	"boatbook/shared/failure"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func stringPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

func TestUserService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel())

	admin := actor.New("admin-1", constant.RoleAdmin)
	req := dto.CreateUserRequest{
		Email:    "guide@example.com",
		Password: "password123",
		FullName: "Made Guide",
		Role:     constant.RoleGuide,
	}

	tests := []struct {
		name      string
		setupMock func()
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "creates guide account",
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, user model.User) error {
					assert.Equal(t, constant.RoleGuide, user.Role)
					assert.Equal(t, "admin-1", user.CreatedBy)
					assert.NotEqual(t, req.Password, user.Password)

					return nil
				})
				mockCache.EXPECT().Clear(gomock.Any(), "user:gets:*").Return(nil).AnyTimes()
			},
		},
		{
			name: "duplicate email",
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  true,
			wantKind: failure.KindConflict,
		},
		{
			name: "insert fails",
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantErr:  true,
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			id, err := svc.Create(context.Background(), admin, req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, id)
		})
	}
}

func TestUserService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel())

	tests := []struct {
		name      string
		act       actor.Actor
		setupMock func()
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "owner reads own profile",
			act:  actor.New("user-1", constant.RoleCustomer),
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), "user:get:user-1", gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "user-1", Role: constant.RoleCustomer}, nil)
				mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
		},
		{
			name:      "customer reads someone else",
			act:       actor.New("user-2", constant.RoleCustomer),
			setupMock: func() {},
			wantErr:   true,
			wantKind:  failure.KindPermission,
		},
		{
			name: "staff reads missing user",
			act:  actor.New("ops-1", constant.RoleOperations),
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(context.Background(), tt.act, "user-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "user-1", res.ID)
		})
	}
}

func TestUserService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel())

	tests := []struct {
		name      string
		act       actor.Actor
		req       dto.UpdateUserRequest
		setupMock func()
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "customer updates phone",
			act:  actor.New("user-1", constant.RoleCustomer),
			req:  dto.UpdateUserRequest{Phone: stringPtr("+62 812")},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Contains(t, fields, model.FieldPhone)
					assert.Equal(t, "user-1", fields[constant.FieldModifiedBy])

					return nil
				})
				mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
		},
		{
			name:      "customer cannot promote self",
			act:       actor.New("user-1", constant.RoleCustomer),
			req:       dto.UpdateUserRequest{Role: stringPtr(constant.RoleAdmin)},
			setupMock: func() {},
			wantErr:   true,
			wantKind:  failure.KindPermission,
		},
		{
			name:      "operations cannot promote self",
			act:       actor.New("user-1", constant.RoleOperations),
			req:       dto.UpdateUserRequest{Role: stringPtr(constant.RoleAdmin)},
			setupMock: func() {},
			wantErr:   true,
			wantKind:  failure.KindPermission,
		},
		{
			name:      "operations cannot deactivate a user",
			act:       actor.New("ops-1", constant.RoleOperations),
			req:       dto.UpdateUserRequest{IsActive: boolPtr(false)},
			setupMock: func() {},
			wantErr:   true,
			wantKind:  failure.KindPermission,
		},
		{
			name: "admin changes role",
			act:  actor.New("admin-1", constant.RoleAdmin),
			req:  dto.UpdateUserRequest{Role: stringPtr(constant.RoleGuide)},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, stringPtr(constant.RoleGuide), fields[model.FieldRole])

					return nil
				})
				mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
		},
		{
			name:      "empty request",
			act:       actor.New("admin-1", constant.RoleAdmin),
			setupMock: func() {},
			wantErr:   true,
			wantKind:  failure.KindValidation,
		},
		{
			name: "user missing",
			act:  actor.New("admin-1", constant.RoleAdmin),
			req:  dto.UpdateUserRequest{Role: stringPtr(constant.RoleGuide)},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Update(context.Background(), tt.act, tt.req, "user-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
