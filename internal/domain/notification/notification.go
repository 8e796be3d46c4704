package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
)

// Channel represents the delivery channel for a notification
type Channel string

const (
	ChannelInApp Channel = "IN_APP"
	ChannelEmail Channel = "EMAIL"
)

// IsValid checks if the channel is valid
func (c Channel) IsValid() bool {
	return c == ChannelInApp || c == ChannelEmail
}

// Status represents the delivery status of a notification
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSent    Status = "SENT"
	StatusFailed  Status = "FAILED"
)

// Category groups notifications by the kind of event that produced them
type Category string

const (
	CategoryOrder     Category = "ORDER"
	CategoryShare     Category = "SHARE"
	CategoryBilling   Category = "BILLING"
	CategorySupplier  Category = "SUPPLIER"
	CategoryHierarchy Category = "HIERARCHY"
)

// Notification is a message addressed to one user. In-app notifications
// are marked read by the recipient; email notifications are handed to the
// delivery queue and tracked through Sent or Failed.
type Notification struct {
	shared.BaseAggregateRoot
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index"`
	Channel     Channel   `gorm:"not null;size:20"`
	Category    Category  `gorm:"not null;size:20;index"`
	Subject     string    `gorm:"not null;size:200"`
	Body        string    `gorm:"not null;size:2000"`
	Status      Status    `gorm:"not null;size:20;index"`

	// RefType and RefID point back at the aggregate the notification is
	// about, e.g. an order or a share request.
	RefType string     `gorm:"size:50"`
	RefID   *uuid.UUID `gorm:"type:uuid"`

	SentAt    *time.Time
	FailedAt  *time.Time
	LastError string `gorm:"size:500"`
	ReadAt    *time.Time
}

// TableName returns the database table name
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates a pending notification for a recipient
func NewNotification(recipientID uuid.UUID, channel Channel, category Category, subject, body string) (*Notification, error) {
	if recipientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient ID cannot be empty")
	}
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Unknown notification channel")
	}
	if subject == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Subject cannot be empty")
	}
	if len(body) > 2000 {
		return nil, shared.NewDomainError("INVALID_BODY", "Body cannot exceed 2000 characters")
	}

	return &Notification{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RecipientID:       recipientID,
		Channel:           channel,
		Category:          category,
		Subject:           subject,
		Body:              body,
		Status:            StatusPending,
	}, nil
}

// WithRef attaches the source aggregate reference
func (n *Notification) WithRef(refType string, refID uuid.UUID) *Notification {
	n.RefType = refType
	n.RefID = &refID
	return n
}

// MarkSent records successful delivery
func (n *Notification) MarkSent() error {
	if n.Status != StatusPending && n.Status != StatusFailed {
		return shared.NewDomainError("INVALID_STATE", "Notification is already sent")
	}

	now := time.Now()
	n.Status = StatusSent
	n.SentAt = &now
	n.LastError = ""
	n.UpdatedAt = now

	return nil
}

// MarkFailed records a delivery failure. Failed notifications may be
// retried and marked sent later.
func (n *Notification) MarkFailed(errMsg string) error {
	if n.Status == StatusSent {
		return shared.NewDomainError("INVALID_STATE", "Notification is already sent")
	}

	now := time.Now()
	n.Status = StatusFailed
	n.FailedAt = &now
	n.LastError = errMsg
	n.UpdatedAt = now

	return nil
}

// MarkRead records that the recipient has seen an in-app notification
func (n *Notification) MarkRead() error {
	if n.Channel != ChannelInApp {
		return shared.NewDomainError("INVALID_CHANNEL", "Only in-app notifications can be marked read")
	}
	if n.ReadAt != nil {
		return shared.NewDomainError("ALREADY_READ", "Notification is already read")
	}

	now := time.Now()
	n.ReadAt = &now
	n.UpdatedAt = now

	return nil
}

// IsRead returns true if the recipient has seen the notification
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
