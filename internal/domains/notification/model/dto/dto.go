package dto

import (
	"time"

	"boatbook/internal/domains/notification/model"
	"boatbook/shared/constant"
	gModel "boatbook/shared/model"
	"boatbook/shared/timezone"

	"github.com/google/uuid"
)

// EnqueueRequest is produced by lifecycle transitions, never by clients.
type EnqueueRequest struct {
	UserID  string
	Title   string
	Message string
	Type    string
}

func (r *EnqueueRequest) ToModel() model.Notification {
	return model.Notification{
		ID:       uuid.NewString(),
		UserID:   r.UserID,
		Title:    r.Title,
		Message:  r.Message,
		Type:     r.Type,
		Metadata: gModel.NewMetadata(constant.ContextSystem, timezone.Now()),
	}
}

type MarkReadRequest struct {
	IsRead bool `db:"is_read" json:"is_read"`
}

type MarkPublishedRequest struct {
	PublishedAt time.Time `db:"published_at" json:"published_at"`
}

type NotificationResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

func (r *NotificationResponse) FromModel(model model.Notification) {
	r.ID = model.ID
	r.Title = model.Title
	r.Message = model.Message
	r.Type = model.Type
	r.IsRead = model.IsRead
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}

type GetNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}

func (r *GetNotificationsResponse) FromModels(models []model.Notification) {
	r.Notifications = make([]NotificationResponse, len(models))
	for i, mod := range models {
		r.Notifications[i].FromModel(mod)
	}
}

// Event is the payload published to the notification topic.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *Event) FromModel(model model.Notification) {
	e.ID = model.ID
	e.UserID = model.UserID
	e.Title = model.Title
	e.Message = model.Message
	e.Type = model.Type
	e.CreatedAt = model.CreatedAt
}
