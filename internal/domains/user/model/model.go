package model

import (
	"time"

	"boatbook/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldFullName  = "full_name"
	FieldPhone     = "phone"
	FieldRole      = "role"
	FieldIsActive  = "is_active"
	FieldLastLogin = "last_login"
)

type User struct {
	ID        string     `db:"id"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	FullName  string     `db:"full_name"`
	Phone     string     `db:"phone"`
	Role      string     `db:"role"`
	IsActive  bool       `db:"is_active"`
	LastLogin *time.Time `db:"last_login"`
	model.Metadata
}

