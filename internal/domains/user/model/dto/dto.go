package dto

import (
	"time"

	"boatbook/internal/domains/user/model"
	"boatbook/shared"
	"boatbook/shared/constant"
	gDto "boatbook/shared/dto"
	gModel "boatbook/shared/model"
	"boatbook/shared/timezone"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,max=255"`
	Phone    string `json:"phone"     validate:"omitempty,max=50"`
	Role     string `json:"role"      validate:"required,oneof=customer admin operations guide"`
}

func (r *CreateUserRequest) ToModel(username, hashedPassword string) model.User {
	return model.User{
		ID:       uuid.NewString(),
		Email:    r.Email,
		Password: hashedPassword,
		FullName: r.FullName,
		Phone:    r.Phone,
		Role:     r.Role,
		IsActive: true,
		Metadata: gModel.NewMetadata(username, timezone.Now()),
	}
}

type UpdateUserRequest struct {
	FullName *string `db:"full_name" json:"full_name,omitempty" validate:"omitempty,max=255"`
	Phone    *string `db:"phone"     json:"phone,omitempty"     validate:"omitempty,max=50"`
	Role     *string `db:"role"      json:"role,omitempty"      validate:"omitempty,oneof=customer admin operations guide"`
	IsActive *bool   `db:"is_active" json:"is_active,omitempty"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	LastLogin string `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.FullName = model.FullName
	r.Phone = model.Phone
	r.Role = model.Role
	r.IsActive = model.IsActive
	r.LastLogin = formatOptional(model.LastLogin)
	r.Metadata.FromModel(model.Metadata)
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return constant.Empty
	}

	return timezone.Format(*t, constant.DateFormat)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
