package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/notification"
)

// CreateNotificationRequest represents a request to create a notification
type CreateNotificationRequest struct {
	RecipientID uuid.UUID  `json:"recipient_id" binding:"required"`
	Channel     string     `json:"channel" binding:"required"`
	Category    string     `json:"category" binding:"required"`
	Subject     string     `json:"subject" binding:"required"`
	Body        string     `json:"body" binding:"required"`
	RefType     string     `json:"ref_type"`
	RefID       *uuid.UUID `json:"ref_id"`
}

// NotificationListFilter carries the list query parameters
type NotificationListFilter struct {
	UnreadOnly bool   `form:"unread_only"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir"`
}

// NotificationResponse represents notification data in API responses
type NotificationResponse struct {
	ID          uuid.UUID  `json:"id"`
	RecipientID uuid.UUID  `json:"recipient_id"`
	Channel     string     `json:"channel"`
	Category    string     `json:"category"`
	Subject     string     `json:"subject"`
	Body        string     `json:"body"`
	Status      string     `json:"status"`
	RefType     string     `json:"ref_type,omitempty"`
	RefID       *uuid.UUID `json:"ref_id,omitempty"`
	Read        bool       `json:"read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// UnreadCountResponse reports the recipient's unread in-app notifications
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// ToNotificationResponse converts a notification to its response DTO
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Channel:     string(n.Channel),
		Category:    string(n.Category),
		Subject:     n.Subject,
		Body:        n.Body,
		Status:      string(n.Status),
		RefType:     n.RefType,
		RefID:       n.RefID,
		Read:        n.IsRead(),
		ReadAt:      n.ReadAt,
		SentAt:      n.SentAt,
		CreatedAt:   n.CreatedAt,
	}
}

// ToNotificationResponses converts a slice of notifications
func ToNotificationResponses(items []notification.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, len(items))
	for i := range items {
		responses[i] = ToNotificationResponse(&items[i])
	}
	return responses
}
