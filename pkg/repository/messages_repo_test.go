package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/tendant/org-messages/pkg/domain"
	"github.com/tendant/org-messages/pkg/message"
)

var _ message.Repository = (*MessagesRepository)(nil)

var messageColumns = []string{"id", "organization_id", "title", "content", "is_active", "created_at"}

func newMockRepo(t *testing.T) (*MessagesRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewMessagesRepository(db), mock
}

func TestMessagesRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	orgID := uuid.New()
	id := uuid.New()
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM messages")).
		WithArgs(orgID, id).
		WillReturnRows(sqlmock.NewRows(messageColumns).
			AddRow(id.String(), orgID.String(), "Valid Title", "Some valid content.", true, createdAt))

	msg, err := repo.GetByID(context.Background(), orgID, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if msg == nil {
		t.Fatal("GetByID returned nil message")
	}
	if msg.ID != id || msg.OrganizationID != orgID {
		t.Errorf("ids = (%v, %v), want (%v, %v)", msg.ID, msg.OrganizationID, id, orgID)
	}
	if msg.Title != "Valid Title" || !msg.IsActive || !msg.CreatedAt.Equal(createdAt) {
		t.Errorf("unexpected message: %+v", msg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestMessagesRepository_GetByID_NoRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM messages")).
		WillReturnRows(sqlmock.NewRows(messageColumns))

	msg, err := repo.GetByID(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("GetByID should not fail on missing row: %v", err)
	}
	if msg != nil {
		t.Errorf("GetByID = %+v, want nil", msg)
	}
}

func TestMessagesRepository_GetByTitle_PropagatesErrors(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE organization_id = $1 AND title = $2")).
		WillReturnError(boom)

	_, err := repo.GetByTitle(context.Background(), uuid.New(), "Valid Title")
	if !errors.Is(err, boom) {
		t.Errorf("GetByTitle error = %v, want %v", err, boom)
	}
}

func TestMessagesRepository_GetAllByOrganization(t *testing.T) {
	repo, mock := newMockRepo(t)
	orgID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at, id")).
		WithArgs(orgID).
		WillReturnRows(sqlmock.NewRows(messageColumns).
			AddRow(uuid.New().String(), orgID.String(), "First", "First content here.", true, now).
			AddRow(uuid.New().String(), orgID.String(), "Second", "Second content here.", false, now.Add(time.Second)))

	msgs, err := repo.GetAllByOrganization(context.Background(), orgID)
	if err != nil {
		t.Fatalf("GetAllByOrganization failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Title != "First" || msgs[1].Title != "Second" || msgs[1].IsActive {
		t.Errorf("unexpected messages: %+v, %+v", msgs[0], msgs[1])
	}
}

func TestMessagesRepository_GetAllByOrganization_Empty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM messages")).
		WillReturnRows(sqlmock.NewRows(messageColumns))

	msgs, err := repo.GetAllByOrganization(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("GetAllByOrganization failed: %v", err)
	}
	if msgs == nil || len(msgs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", msgs)
	}
}

func TestMessagesRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	orgID := uuid.New()
	input := domain.NewMessage(orgID, "Valid Title", "Some valid content.")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages")).
		WithArgs(sqlmock.AnyArg(), orgID, "Valid Title", "Some valid content.", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("Create should assign an ID")
	}
	if created.CreatedAt.IsZero() {
		t.Error("Create should assign CreatedAt")
	}
	if input.ID != uuid.Nil {
		t.Error("Create should not modify its input")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestMessagesRepository_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{
			name:    "unique violation maps to ErrDuplicateTitle",
			dbErr:   &pq.Error{Code: "23505"},
			wantErr: domain.ErrDuplicateTitle,
		},
		{
			name:    "other pq errors pass through",
			dbErr:   &pq.Error{Code: "23502"},
			wantErr: nil,
		},
		{
			name:    "driver errors pass through",
			dbErr:   sql.ErrConnDone,
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages")).WillReturnError(tt.dbErr)

			_, err := repo.Create(context.Background(), domain.NewMessage(uuid.New(), "Valid Title", "Some valid content."))
			if err == nil {
				t.Fatal("Create should fail")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Create error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && errors.Is(err, domain.ErrDuplicateTitle) {
				t.Errorf("Create error = %v, should not be ErrDuplicateTitle", err)
			}
		})
	}
}

func TestMessagesRepository_Update(t *testing.T) {
	msg := &domain.Message{ID: uuid.New(), OrganizationID: uuid.New(), Title: "New Title", Content: "New valid content.", IsActive: false}

	tests := []struct {
		name    string
		result  driver.Result
		dbErr   error
		wantErr error
	}{
		{
			name:   "row updated",
			result: sqlmock.NewResult(0, 1),
		},
		{
			name:    "no row",
			result:  sqlmock.NewResult(0, 0),
			wantErr: domain.ErrMessageNotFound,
		},
		{
			name:    "title taken",
			dbErr:   &pq.Error{Code: "23505"},
			wantErr: domain.ErrDuplicateTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			exp := mock.ExpectExec(regexp.QuoteMeta("UPDATE messages")).
				WithArgs(msg.OrganizationID, msg.ID, msg.Title, msg.Content, msg.IsActive)
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnResult(tt.result)
			}

			err := repo.Update(context.Background(), msg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Update error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMessagesRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "row removed", affected: 1, want: true},
		{name: "nothing removed", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			orgID := uuid.New()
			id := uuid.New()

			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM messages")).
				WithArgs(orgID, id).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			got, err := repo.Delete(context.Background(), orgID, id)
			if err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Delete = %v, want %v", got, tt.want)
			}
		})
	}
}
