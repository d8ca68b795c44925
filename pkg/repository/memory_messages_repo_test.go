package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/org-messages/pkg/domain"
	"github.com/tendant/org-messages/pkg/message"
)

var _ message.Repository = (*MemoryMessagesRepository)(nil)

func TestMemoryMessagesRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMessagesRepository()
	orgID := uuid.New()

	created, err := repo.Create(ctx, domain.NewMessage(orgID, "Valid Title", "Some valid content."))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == uuid.Nil || created.CreatedAt.IsZero() {
		t.Fatalf("Create should assign ID and CreatedAt: %+v", created)
	}

	got, err := repo.GetByID(ctx, orgID, created.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID = %v, %v", got, err)
	}
	if *got != *created {
		t.Errorf("GetByID = %+v, want %+v", got, created)
	}

	other, err := repo.GetByID(ctx, uuid.New(), created.ID)
	if err != nil || other != nil {
		t.Errorf("GetByID from another organization = %v, %v, want nil", other, err)
	}
}

func TestMemoryMessagesRepository_GetByTitle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMessagesRepository()
	orgID := uuid.New()

	created, _ := repo.Create(ctx, domain.NewMessage(orgID, "Exact Title", "Some valid content."))

	tests := []struct {
		name  string
		orgID uuid.UUID
		title string
		found bool
	}{
		{name: "exact match", orgID: orgID, title: "Exact Title", found: true},
		{name: "case differs", orgID: orgID, title: "exact title", found: false},
		{name: "other organization", orgID: uuid.New(), title: "Exact Title", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetByTitle(ctx, tt.orgID, tt.title)
			if err != nil {
				t.Fatalf("GetByTitle failed: %v", err)
			}
			if (got != nil) != tt.found {
				t.Fatalf("GetByTitle found = %v, want %v", got != nil, tt.found)
			}
			if got != nil && got.ID != created.ID {
				t.Errorf("GetByTitle ID = %v, want %v", got.ID, created.ID)
			}
		})
	}
}

func TestMemoryMessagesRepository_UniqueTitle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMessagesRepository()
	orgID := uuid.New()

	first, _ := repo.Create(ctx, domain.NewMessage(orgID, "Shared Title", "Some valid content."))
	second, _ := repo.Create(ctx, domain.NewMessage(orgID, "Other Title", "Some valid content."))

	if _, err := repo.Create(ctx, domain.NewMessage(orgID, "Shared Title", "Some valid content.")); !errors.Is(err, domain.ErrDuplicateTitle) {
		t.Errorf("Create duplicate error = %v, want ErrDuplicateTitle", err)
	}
	if _, err := repo.Create(ctx, domain.NewMessage(uuid.New(), "Shared Title", "Some valid content.")); err != nil {
		t.Errorf("same title in another organization should be allowed: %v", err)
	}

	second.Title = first.Title
	if err := repo.Update(ctx, second); !errors.Is(err, domain.ErrDuplicateTitle) {
		t.Errorf("Update to taken title error = %v, want ErrDuplicateTitle", err)
	}

	first.Content = "Replacement content here."
	if err := repo.Update(ctx, first); err != nil {
		t.Errorf("Update keeping own title failed: %v", err)
	}
}

func TestMemoryMessagesRepository_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMessagesRepository()
	orgID := uuid.New()

	created, _ := repo.Create(ctx, domain.NewMessage(orgID, "Valid Title", "Some valid content."))

	changed := *created
	changed.Title = "Renamed Title"
	changed.IsActive = false
	changed.CreatedAt = time.Time{}
	if err := repo.Update(ctx, &changed); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := repo.GetByID(ctx, orgID, created.ID)
	if got.Title != "Renamed Title" || got.IsActive {
		t.Errorf("Update not applied: %+v", got)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt changed from %v to %v", created.CreatedAt, got.CreatedAt)
	}

	missing := &domain.Message{ID: uuid.New(), OrganizationID: orgID, Title: "Nobody"}
	if err := repo.Update(ctx, missing); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Errorf("Update missing error = %v, want ErrMessageNotFound", err)
	}
}

func TestMemoryMessagesRepository_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMessagesRepository()
	orgID := uuid.New()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first, _ := repo.Create(ctx, domain.NewMessage(orgID, "First Title", "Some valid content."))
	second, _ := repo.Create(ctx, domain.NewMessage(orgID, "Second Title", "Some valid content."))
	_, _ = repo.Create(ctx, domain.NewMessage(uuid.New(), "Foreign Title", "Some valid content."))

	msgs, err := repo.GetAllByOrganization(ctx, orgID)
	if err != nil {
		t.Fatalf("GetAllByOrganization failed: %v", err)
	}
	if len(msgs) != 2 || msgs[0].ID != first.ID || msgs[1].ID != second.ID {
		t.Fatalf("GetAllByOrganization = %+v, want [first, second]", msgs)
	}

	removed, err := repo.Delete(ctx, uuid.New(), first.ID)
	if err != nil || removed {
		t.Errorf("Delete from another organization = %v, %v, want false", removed, err)
	}

	removed, err = repo.Delete(ctx, orgID, first.ID)
	if err != nil || !removed {
		t.Errorf("Delete = %v, %v, want true", removed, err)
	}

	removed, _ = repo.Delete(ctx, orgID, first.ID)
	if removed {
		t.Error("second Delete should report nothing removed")
	}

	msgs, _ = repo.GetAllByOrganization(ctx, orgID)
	if len(msgs) != 1 || msgs[0].ID != second.ID {
		t.Errorf("after delete = %+v, want [second]", msgs)
	}
}
