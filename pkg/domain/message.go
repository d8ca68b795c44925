package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a short text message owned by exactly one organization.
type Message struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewMessage returns an active message for the organization.
// ID and CreatedAt are left for the repository to assign.
func NewMessage(organizationID uuid.UUID, title, content string) *Message {
	return &Message{
		OrganizationID: organizationID,
		Title:          title,
		Content:        content,
		IsActive:       true,
	}
}

// CanMutate reports whether the message may still be updated or deleted.
// Inactive messages are frozen.
func (m *Message) CanMutate() bool {
	return m.IsActive
}
