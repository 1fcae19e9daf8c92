package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"uigen/internal/domain"
	"uigen/internal/domain/models"
	"uigen/internal/domain/models/llm"
)

// fakeRepo is an in-memory ProjectRepository.
type fakeRepo struct {
	projects map[string]*models.Project
	calls    int
	failWith error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{projects: make(map[string]*models.Project)}
}

func (r *fakeRepo) Create(ctx context.Context, project *models.Project) error {
	r.calls++
	if r.failWith != nil {
		return r.failWith
	}
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	stored := *project
	r.projects[project.ID] = &stored
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id, userID string) (*models.Project, error) {
	r.calls++
	if r.failWith != nil {
		return nil, r.failWith
	}
	project, ok := r.projects[id]
	if !ok || project.UserID != userID {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	copied := *project
	return &copied, nil
}

func (r *fakeRepo) List(ctx context.Context, userID string) ([]models.ProjectSummary, error) {
	r.calls++
	if r.failWith != nil {
		return nil, r.failWith
	}
	summaries := []models.ProjectSummary{}
	for _, p := range r.projects {
		if p.UserID == userID {
			summaries = append(summaries, models.ProjectSummary{
				ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
			})
		}
	}
	return summaries, nil
}

func (r *fakeRepo) UpdateContent(ctx context.Context, id, userID, messages, data string) error {
	r.calls++
	if r.failWith != nil {
		return r.failWith
	}
	project, ok := r.projects[id]
	if !ok || project.UserID != userID {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	project.Messages = messages
	project.Data = data
	project.UpdatedAt = time.Now()
	return nil
}

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, slog.New(slog.DiscardHandler))
}

func TestCreate(t *testing.T) {
	t.Run("requires authentication before touching the store", func(t *testing.T) {
		repo := newFakeRepo()
		service := newTestService(repo)

		_, err := service.Create(context.Background(), "", &CreateRequest{Name: "My Design"})

		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		if repo.calls != 0 {
			t.Error("unauthenticated create must not reach the repository")
		}
	})

	t.Run("defaults empty content", func(t *testing.T) {
		service := newTestService(newFakeRepo())

		created, err := service.Create(context.Background(), "user-1", &CreateRequest{Name: "My Design"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if created.ID == "" {
			t.Error("expected generated id")
		}
		if created.UserID != "user-1" {
			t.Errorf("owner must come from the session, got %q", created.UserID)
		}
		if created.Messages != "[]" {
			t.Errorf("empty transcript must serialize as [], got %q", created.Messages)
		}
		if created.Data != "{}" {
			t.Errorf("empty snapshot must serialize as {}, got %q", created.Data)
		}
		if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
			t.Error("store timestamps missing")
		}
	})

	t.Run("returns serialized fields as stored", func(t *testing.T) {
		service := newTestService(newFakeRepo())

		created, err := service.Create(context.Background(), "user-1", &CreateRequest{
			Name:     "My Design",
			Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
			Data:     map[string]interface{}{"/App.jsx": map[string]interface{}{"type": "file"}},
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if !strings.Contains(created.Messages, `"content":"hi"`) {
			t.Errorf("expected serialized transcript, got %q", created.Messages)
		}
		if !strings.Contains(created.Data, "/App.jsx") {
			t.Errorf("expected serialized snapshot, got %q", created.Data)
		}
	})

	t.Run("validates name", func(t *testing.T) {
		service := newTestService(newFakeRepo())
		ctx := context.Background()

		for _, name := range []string{"", "   ", strings.Repeat("x", 300)} {
			_, err := service.Create(ctx, "user-1", &CreateRequest{Name: name})
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("name %q: expected ErrValidation, got %v", name, err)
			}
		}
	})
}

func TestGet(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		repo := newFakeRepo()
		service := newTestService(repo)

		_, err := service.Get(context.Background(), "some-id", "")
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		if repo.calls != 0 {
			t.Error("unauthenticated get must not reach the repository")
		}
	})

	t.Run("deserializes stored content without owner id", func(t *testing.T) {
		service := newTestService(newFakeRepo())
		ctx := context.Background()

		created, err := service.Create(ctx, "user-1", &CreateRequest{
			Name:     "My Design",
			Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
			Data:     map[string]interface{}{"/App.jsx": map[string]interface{}{"type": "file"}},
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		view, err := service.Get(ctx, created.ID, "user-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}

		if len(view.Messages) != 1 || view.Messages[0].Content != "hi" {
			t.Errorf("unexpected transcript: %+v", view.Messages)
		}
		if _, ok := view.Data["/App.jsx"]; !ok {
			t.Errorf("unexpected snapshot: %+v", view.Data)
		}
	})

	t.Run("someone else's project is not found", func(t *testing.T) {
		service := newTestService(newFakeRepo())
		ctx := context.Background()

		created, err := service.Create(ctx, "user-1", &CreateRequest{Name: "My Design"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		_, err = service.Get(ctx, created.ID, "user-2")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestList(t *testing.T) {
	repo := newFakeRepo()
	service := newTestService(repo)

	if _, err := service.List(context.Background(), ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if repo.calls != 0 {
		t.Error("unauthenticated list must not reach the repository")
	}

	summaries, err := service.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if summaries == nil || len(summaries) != 0 {
		t.Errorf("expected empty list, got %v", summaries)
	}
}

func TestUpdateContent(t *testing.T) {
	repo := newFakeRepo()
	service := newTestService(repo)
	ctx := context.Background()

	if err := service.UpdateContent(ctx, "id", "", "[]", "{}"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	created, err := service.Create(ctx, "user-1", &CreateRequest{Name: "My Design"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := service.UpdateContent(ctx, created.ID, "user-1", `[{"role":"user"}]`, `{}`); err != nil {
		t.Fatalf("UpdateContent failed: %v", err)
	}

	if err := service.UpdateContent(ctx, created.ID, "user-2", "[]", "{}"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cross-owner update: expected ErrNotFound, got %v", err)
	}
}
