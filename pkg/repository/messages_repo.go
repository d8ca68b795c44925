package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/tendant/org-messages/pkg/domain"
)

// uniqueViolation is the Postgres SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

// MessagesRepository handles message persistence in Postgres.
// Title uniqueness is backed by the messages_organization_title_key index.
type MessagesRepository struct {
	db Querier
}

// NewMessagesRepository creates a new messages repository.
func NewMessagesRepository(db Querier) *MessagesRepository {
	return &MessagesRepository{db: db}
}

// GetByID retrieves a message by organization and ID. Returns nil if none matches.
func (r *MessagesRepository) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.Message, error) {
	query := `
		SELECT id, organization_id, title, content, is_active, created_at
		FROM messages
		WHERE organization_id = $1 AND id = $2
	`
	return r.getOne(ctx, query, organizationID, id)
}

// GetByTitle retrieves a message by exact title, active or not. Returns nil if none matches.
func (r *MessagesRepository) GetByTitle(ctx context.Context, organizationID uuid.UUID, title string) (*domain.Message, error) {
	query := `
		SELECT id, organization_id, title, content, is_active, created_at
		FROM messages
		WHERE organization_id = $1 AND title = $2
	`
	return r.getOne(ctx, query, organizationID, title)
}

// GetAllByOrganization lists every message of the organization, oldest first.
func (r *MessagesRepository) GetAllByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*domain.Message, error) {
	query := `
		SELECT id, organization_id, title, content, is_active, created_at
		FROM messages
		WHERE organization_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*domain.Message{}
	for rows.Next() {
		msg := &domain.Message{}
		if err := rows.Scan(
			&msg.ID, &msg.OrganizationID, &msg.Title, &msg.Content, &msg.IsActive, &msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

// Create inserts a message, assigning its ID and creation time.
func (r *MessagesRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	query := `
		INSERT INTO messages (id, organization_id, title, content, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	created := *msg
	created.ID = uuid.New()
	created.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		created.ID, created.OrganizationID, created.Title, created.Content, created.IsActive, created.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

// Update writes title, content and active state. CreatedAt is never changed.
func (r *MessagesRepository) Update(ctx context.Context, msg *domain.Message) error {
	query := `
		UPDATE messages
		SET title = $3, content = $4, is_active = $5
		WHERE organization_id = $1 AND id = $2
	`
	result, err := r.db.ExecContext(ctx, query,
		msg.OrganizationID, msg.ID, msg.Title, msg.Content, msg.IsActive,
	)
	if err != nil {
		return mapError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

// Delete permanently removes a message. Reports whether a row was removed.
func (r *MessagesRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) (bool, error) {
	query := `DELETE FROM messages WHERE organization_id = $1 AND id = $2`
	result, err := r.db.ExecContext(ctx, query, organizationID, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *MessagesRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Message, error) {
	msg := &domain.Message{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&msg.ID, &msg.OrganizationID, &msg.Title, &msg.Content, &msg.IsActive, &msg.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrDuplicateTitle
	}
	return err
}
