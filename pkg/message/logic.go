package message

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tendant/org-messages/pkg/domain"
)

// Repository is the storage contract the logic depends on.
// GetByID and GetByTitle return nil, nil when nothing matches.
type Repository interface {
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.Message, error)
	GetByTitle(ctx context.Context, organizationID uuid.UUID, title string) (*domain.Message, error)
	GetAllByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*domain.Message, error)
	Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	Update(ctx context.Context, msg *domain.Message) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) (bool, error)
}

// CreateMessageRequest is the input for CreateMessage.
type CreateMessageRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateMessageRequest is the input for UpdateMessage.
type UpdateMessageRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsActive bool   `json:"isActive"`
}

// Logic applies the message rules on top of a Repository.
// It holds no state of its own and is safe for concurrent use.
type Logic struct {
	repo Repository
}

// NewLogic creates a new message logic.
func NewLogic(repo Repository) *Logic {
	return &Logic{repo: repo}
}

// GetMessage returns the message, or nil if it does not exist in the organization.
func (l *Logic) GetMessage(ctx context.Context, organizationID, id uuid.UUID) (*domain.Message, error) {
	msg, err := l.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}

// GetAllMessages returns every message of the organization.
func (l *Logic) GetAllMessages(ctx context.Context, organizationID uuid.UUID) ([]*domain.Message, error) {
	msgs, err := l.repo.GetAllByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// CreateMessage validates the request, rejects duplicate titles and persists
// a new active message.
func (l *Logic) CreateMessage(ctx context.Context, organizationID uuid.UUID, req CreateMessageRequest) (Result, error) {
	if errs := Validate(req.Title, req.Content); len(errs) > 0 {
		return ValidationError{Errors: errs}, nil
	}

	existing, err := l.repo.GetByTitle(ctx, organizationID, req.Title)
	if err != nil {
		return nil, fmt.Errorf("lookup title: %w", err)
	}
	if existing != nil {
		return duplicateTitle(req.Title), nil
	}

	created, err := l.repo.Create(ctx, domain.NewMessage(organizationID, req.Title, req.Content))
	if err != nil {
		// The storage unique constraint catches creates racing past the lookup.
		if errors.Is(err, domain.ErrDuplicateTitle) {
			return duplicateTitle(req.Title), nil
		}
		return nil, fmt.Errorf("create message: %w", err)
	}

	return Created{Value: created}, nil
}

// UpdateMessage validates the request and replaces title, content and active
// state of an existing active message.
func (l *Logic) UpdateMessage(ctx context.Context, organizationID, id uuid.UUID, req UpdateMessageRequest) (Result, error) {
	if errs := Validate(req.Title, req.Content); len(errs) > 0 {
		return ValidationError{Errors: errs}, nil
	}

	msg, err := l.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	if msg == nil {
		return messageNotFound(id), nil
	}

	if !msg.CanMutate() {
		return inactive("Cannot update an inactive message."), nil
	}

	duplicate, err := l.repo.GetByTitle(ctx, organizationID, req.Title)
	if err != nil {
		return nil, fmt.Errorf("lookup title: %w", err)
	}
	if duplicate != nil && duplicate.ID != id {
		return duplicateTitle(req.Title), nil
	}

	msg.Title = req.Title
	msg.Content = req.Content
	msg.IsActive = req.IsActive

	if err := l.repo.Update(ctx, msg); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateTitle):
			return duplicateTitle(req.Title), nil
		case errors.Is(err, domain.ErrMessageNotFound):
			return messageNotFound(id), nil
		}
		return nil, fmt.Errorf("update message: %w", err)
	}

	return Updated{}, nil
}

// DeleteMessage removes an existing active message.
func (l *Logic) DeleteMessage(ctx context.Context, organizationID, id uuid.UUID) (Result, error) {
	msg, err := l.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	if msg == nil {
		return messageNotFound(id), nil
	}

	if !msg.CanMutate() {
		return inactive("Cannot delete an inactive message."), nil
	}

	removed, err := l.repo.Delete(ctx, organizationID, id)
	if err != nil {
		return nil, fmt.Errorf("delete message: %w", err)
	}
	if !removed {
		return messageNotFound(id), nil
	}

	return Deleted{}, nil
}

func duplicateTitle(title string) Conflict {
	return Conflict{Message: fmt.Sprintf("A message with title '%s' already exists in this organization.", title)}
}

func messageNotFound(id uuid.UUID) NotFound {
	return NotFound{Message: fmt.Sprintf("Message with id '%s' was not found.", id)}
}

func inactive(reason string) ValidationError {
	return ValidationError{Errors: map[string][]string{FieldIsActive: {reason}}}
}
