package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"uigen/internal/domain"
	"uigen/internal/domain/models"
	"uigen/internal/httputil"
	"uigen/internal/service/project"
)

type fakeProjectRepo struct {
	projects map[string]*models.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[string]*models.Project)}
}

func (r *fakeProjectRepo) Create(ctx context.Context, p *models.Project) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	stored := *p
	r.projects[p.ID] = &stored
	return nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id, userID string) (*models.Project, error) {
	p, ok := r.projects[id]
	if !ok || p.UserID != userID {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProjectRepo) List(ctx context.Context, userID string) ([]models.ProjectSummary, error) {
	summaries := []models.ProjectSummary{}
	for _, p := range r.projects {
		if p.UserID == userID {
			summaries = append(summaries, models.ProjectSummary{ID: p.ID, Name: p.Name})
		}
	}
	return summaries, nil
}

func (r *fakeProjectRepo) UpdateContent(ctx context.Context, id, userID, messages, data string) error {
	return nil
}

func newProjectMux(repo *fakeProjectRepo) *http.ServeMux {
	logger := slog.New(slog.DiscardHandler)
	h := NewProjectHandler(project.NewService(repo, logger), logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects", h.List)
	mux.HandleFunc("POST /api/projects", h.Create)
	mux.HandleFunc("GET /api/projects/{id}", h.Get)
	return mux
}

func asUser(r *http.Request, userID string) *http.Request {
	if userID == "" {
		return r
	}
	return httputil.WithUserID(r, userID)
}

func TestProjectHandler_Create(t *testing.T) {
	mux := newProjectMux(newFakeProjectRepo())

	t.Run("authenticated create returns 201 with stored record", func(t *testing.T) {
		body := strings.NewReader(`{"name":"My Design"}`)
		r := asUser(httptest.NewRequest(http.MethodPost, "/api/projects", body), "user-1")
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, r)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var created models.Project
		if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
			t.Fatalf("invalid response JSON: %v", err)
		}
		if created.ID == "" || created.Name != "My Design" {
			t.Errorf("unexpected response: %+v", created)
		}
		if created.Messages != "[]" {
			t.Errorf("create must return the serialized transcript, got %q", created.Messages)
		}
	})

	t.Run("unauthenticated create returns 401 problem", func(t *testing.T) {
		body := strings.NewReader(`{"name":"My Design"}`)
		r := httptest.NewRequest(http.MethodPost, "/api/projects", body)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
			t.Errorf("expected problem response, got %q", ct)
		}
	})

	t.Run("invalid name returns 400", func(t *testing.T) {
		body := strings.NewReader(`{"name":"   "}`)
		r := asUser(httptest.NewRequest(http.MethodPost, "/api/projects", body), "user-1")
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, r)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		body := strings.NewReader(`{broken`)
		r := asUser(httptest.NewRequest(http.MethodPost, "/api/projects", body), "user-1")
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, r)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestProjectHandler_Get(t *testing.T) {
	repo := newFakeProjectRepo()
	repo.Create(context.Background(), &models.Project{
		ID: "p1", UserID: "user-1", Name: "Mine",
		Messages: `[{"role":"user","content":"hi"}]`,
		Data:     `{}`,
	})
	mux := newProjectMux(repo)

	t.Run("owner gets structured view", func(t *testing.T) {
		r := asUser(httptest.NewRequest(http.MethodGet, "/api/projects/p1", nil), "user-1")
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var view models.ProjectView
		if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
			t.Fatalf("invalid response JSON: %v", err)
		}
		if len(view.Messages) != 1 || view.Messages[0].Content != "hi" {
			t.Errorf("unexpected transcript: %+v", view.Messages)
		}
		if strings.Contains(w.Body.String(), "user-1") {
			t.Error("owner id must not appear in the response")
		}
	})

	t.Run("other user gets 404", func(t *testing.T) {
		r := asUser(httptest.NewRequest(http.MethodGet, "/api/projects/p1", nil), "user-2")
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, r)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("unauthenticated gets 401", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/projects/p1", nil)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})
}

func TestProjectHandler_List(t *testing.T) {
	repo := newFakeProjectRepo()
	repo.Create(context.Background(), &models.Project{ID: "p1", UserID: "user-1", Name: "Mine"})
	mux := newProjectMux(repo)

	r := asUser(httptest.NewRequest(http.MethodGet, "/api/projects", nil), "user-1")
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var summaries []models.ProjectSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "p1" {
		t.Errorf("unexpected summaries: %+v", summaries)
	}
}
