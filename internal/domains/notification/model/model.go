package model

import (
	"time"

	"boatbook/shared/model"
)

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID          = "id"
	FieldUserID      = "user_id"
	FieldIsRead      = "is_read"
	FieldPublishedAt = "published_at"
	FieldAttempts    = "attempts"
	FieldLastError   = "last_error"
)

const (
	TypeBooking    = "booking"
	TypePayment    = "payment"
	TypeAssignment = "assignment"
)

type Notification struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	Title       string     `db:"title"`
	Message     string     `db:"message"`
	Type        string     `db:"type"`
	IsRead      bool       `db:"is_read"`
	PublishedAt *time.Time `db:"published_at"`
	Attempts    int        `db:"attempts"`
	LastError   string     `db:"last_error"`
	model.Metadata
}
