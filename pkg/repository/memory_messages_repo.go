package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/org-messages/pkg/domain"
)

// MemoryMessagesRepository keeps messages in process memory.
// It enforces the same per-organization title uniqueness as the Postgres schema.
type MemoryMessagesRepository struct {
	mu       sync.RWMutex
	messages map[uuid.UUID]domain.Message
	now      func() time.Time
}

// NewMemoryMessagesRepository creates an empty in-memory repository.
func NewMemoryMessagesRepository() *MemoryMessagesRepository {
	return &MemoryMessagesRepository{
		messages: make(map[uuid.UUID]domain.Message),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GetByID retrieves a message by organization and ID. Returns nil if none matches.
func (r *MemoryMessagesRepository) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msg, ok := r.messages[id]
	if !ok || msg.OrganizationID != organizationID {
		return nil, nil
	}
	return &msg, nil
}

// GetByTitle retrieves a message by exact title, active or not. Returns nil if none matches.
func (r *MemoryMessagesRepository) GetByTitle(ctx context.Context, organizationID uuid.UUID, title string) (*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if msg, ok := r.findByTitle(organizationID, title); ok {
		return &msg, nil
	}
	return nil, nil
}

// GetAllByOrganization lists every message of the organization, oldest first.
func (r *MemoryMessagesRepository) GetAllByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	messages := []*domain.Message{}
	for _, msg := range r.messages {
		if msg.OrganizationID == organizationID {
			m := msg
			messages = append(messages, &m)
		}
	}

	sort.Slice(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID.String() < messages[j].ID.String()
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

// Create stores a copy of the message with a fresh ID and creation time.
func (r *MemoryMessagesRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.findByTitle(msg.OrganizationID, msg.Title); taken {
		return nil, domain.ErrDuplicateTitle
	}

	created := *msg
	created.ID = uuid.New()
	created.CreatedAt = r.now()
	r.messages[created.ID] = created

	out := created
	return &out, nil
}

// Update writes title, content and active state. CreatedAt is never changed.
func (r *MemoryMessagesRepository) Update(ctx context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.messages[msg.ID]
	if !ok || stored.OrganizationID != msg.OrganizationID {
		return domain.ErrMessageNotFound
	}
	if other, taken := r.findByTitle(msg.OrganizationID, msg.Title); taken && other.ID != msg.ID {
		return domain.ErrDuplicateTitle
	}

	stored.Title = msg.Title
	stored.Content = msg.Content
	stored.IsActive = msg.IsActive
	r.messages[msg.ID] = stored
	return nil
}

// Delete removes a message. Reports whether one was removed.
func (r *MemoryMessagesRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.messages[id]
	if !ok || msg.OrganizationID != organizationID {
		return false, nil
	}
	delete(r.messages, id)
	return true, nil
}

// findByTitle must be called with r.mu held.
func (r *MemoryMessagesRepository) findByTitle(organizationID uuid.UUID, title string) (domain.Message, bool) {
	for _, msg := range r.messages {
		if msg.OrganizationID == organizationID && msg.Title == title {
			return msg, true
		}
	}
	return domain.Message{}, false
}
