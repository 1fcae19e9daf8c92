package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"uigen/internal/anonwork"
	"uigen/internal/auth"
	"uigen/internal/domain"
	"uigen/internal/domain/models"
	"uigen/internal/domain/models/llm"
	"uigen/internal/service/project"
)

// fakeCredentials scripts the credential provider outcome and lets tests
// observe the service while an attempt is in flight.
type fakeCredentials struct {
	result   *auth.CredentialResult
	err      error
	observed *Service
	inFlight []int64
}

func (f *fakeCredentials) SignIn(ctx context.Context, email, password string) (*auth.CredentialResult, error) {
	if f.observed != nil {
		f.inFlight = append(f.inFlight, f.observed.InFlight())
	}
	return f.result, f.err
}

func (f *fakeCredentials) SignUp(ctx context.Context, email, password string) (*auth.CredentialResult, error) {
	return f.SignIn(ctx, email, password)
}

// inMemoryRepo backs the project service for reconciliation tests.
type inMemoryRepo struct {
	projects   []*models.Project
	createErr  error
	listErr    error
}

func (r *inMemoryRepo) Create(ctx context.Context, p *models.Project) error {
	if r.createErr != nil {
		return r.createErr
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	stored := *p
	r.projects = append(r.projects, &stored)
	return nil
}

func (r *inMemoryRepo) GetByID(ctx context.Context, id, userID string) (*models.Project, error) {
	for _, p := range r.projects {
		if p.ID == id && p.UserID == userID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
}

func (r *inMemoryRepo) List(ctx context.Context, userID string) ([]models.ProjectSummary, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	summaries := []models.ProjectSummary{}
	for _, p := range r.projects {
		if p.UserID == userID {
			summaries = append(summaries, models.ProjectSummary{ID: p.ID, Name: p.Name})
		}
	}
	return summaries, nil
}

func (r *inMemoryRepo) UpdateContent(ctx context.Context, id, userID, messages, data string) error {
	return nil
}

type mapStorage struct {
	values map[string]string
}

func newMapStorage() *mapStorage {
	return &mapStorage{values: make(map[string]string)}
}

func (s *mapStorage) Get(ctx context.Context, key string) (string, bool) {
	value, ok := s.values[key]
	return value, ok
}

func (s *mapStorage) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.values[key] = value
	return nil
}

func (s *mapStorage) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func successCredentials() *fakeCredentials {
	return &fakeCredentials{result: &auth.CredentialResult{
		Success:     true,
		UserID:      "user-1",
		AccessToken: "token-abc",
	}}
}

func newTestService(creds *fakeCredentials, repo *inMemoryRepo, storage anonwork.Storage) (*Service, *anonwork.Tracker) {
	logger := slog.New(slog.DiscardHandler)
	projects := project.NewService(repo, logger)
	tracker := anonwork.NewTracker(storage)
	service := NewService(creds, projects, tracker, logger)
	creds.observed = service
	return service, tracker
}

func recordWork(t *testing.T, tracker *anonwork.Tracker, sessionID string) {
	t.Helper()
	tracker.Record(context.Background(), sessionID,
		[]llm.Message{{Role: llm.RoleUser, Content: "build a card"}},
		map[string]interface{}{
			"/App.jsx": map[string]interface{}{
				"type": "file", "name": "App.jsx", "path": "/App.jsx", "content": "export default App",
			},
		},
	)
}

func TestSignIn_CredentialFailure(t *testing.T) {
	creds := &fakeCredentials{result: &auth.CredentialResult{Success: false, Error: "Invalid login credentials"}}
	repo := &inMemoryRepo{}
	service, _ := newTestService(creds, repo, newMapStorage())

	result := service.SignIn(context.Background(), "a@b.com", "password123", "session-1")

	if result.Success {
		t.Fatal("expected failure result")
	}
	if result.Error != "Invalid login credentials" {
		t.Errorf("provider message must pass through, got %q", result.Error)
	}
	if len(repo.projects) != 0 {
		t.Error("failed auth must not create projects")
	}
	if service.InFlight() != 0 {
		t.Error("in-flight counter must be cleared on the failure path")
	}
}

func TestSignIn_TransportError(t *testing.T) {
	creds := &fakeCredentials{err: errors.New("connection refused")}
	service, _ := newTestService(creds, &inMemoryRepo{}, newMapStorage())

	result := service.SignIn(context.Background(), "a@b.com", "password123", "")

	if result.Success {
		t.Fatal("expected failure result")
	}
	if result.Error == "" {
		t.Error("expected an error message")
	}
	if service.InFlight() != 0 {
		t.Error("in-flight counter must be cleared on the error path")
	}
}

func TestSignIn_AnonymousWorkWins(t *testing.T) {
	creds := successCredentials()
	repo := &inMemoryRepo{}
	storage := newMapStorage()
	service, tracker := newTestService(creds, repo, storage)

	// an existing project that would otherwise be the landing target
	repo.Create(context.Background(), &models.Project{ID: "existing", UserID: "user-1", Name: "Old"})

	recordWork(t, tracker, "session-1")

	result := service.SignIn(context.Background(), "a@b.com", "password123", "session-1")

	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.AccessToken != "token-abc" {
		t.Errorf("expected access token in result, got %q", result.AccessToken)
	}

	if len(repo.projects) != 2 {
		t.Fatalf("expected the anonymous work saved as a project, have %d", len(repo.projects))
	}
	saved := repo.projects[1]
	if !strings.HasPrefix(saved.Name, "Design from ") {
		t.Errorf("unexpected project name: %q", saved.Name)
	}
	if !strings.Contains(saved.Messages, "build a card") {
		t.Errorf("tracked transcript missing from project: %q", saved.Messages)
	}
	if !strings.Contains(saved.Data, "/App.jsx") {
		t.Errorf("tracked snapshot missing from project: %q", saved.Data)
	}

	if result.Redirect != "/"+saved.ID {
		t.Errorf("expected redirect to the new project, got %q", result.Redirect)
	}

	// consumed exactly once
	if tracker.HasWork(context.Background(), "session-1") {
		t.Error("tracked work must be cleared after reconciliation")
	}
	if service.InFlight() != 0 {
		t.Error("in-flight counter must be cleared on success")
	}
}

func TestSignIn_ExistingProjectFallback(t *testing.T) {
	creds := successCredentials()
	repo := &inMemoryRepo{}
	service, _ := newTestService(creds, repo, newMapStorage())

	repo.Create(context.Background(), &models.Project{ID: "existing", UserID: "user-1", Name: "Old"})

	result := service.SignIn(context.Background(), "a@b.com", "password123", "session-1")

	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Redirect != "/existing" {
		t.Errorf("expected redirect to most recent project, got %q", result.Redirect)
	}
	if len(repo.projects) != 1 {
		t.Error("no new project should be created when one exists")
	}
}

func TestSignUp_FreshAccountGetsStarterProject(t *testing.T) {
	creds := successCredentials()
	repo := &inMemoryRepo{}
	service, _ := newTestService(creds, repo, newMapStorage())

	result := service.SignUp(context.Background(), "a@b.com", "password123", "")

	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(repo.projects) != 1 {
		t.Fatalf("expected a starter project, have %d", len(repo.projects))
	}
	starter := repo.projects[0]
	if !strings.HasPrefix(starter.Name, "New Design #") {
		t.Errorf("unexpected starter name: %q", starter.Name)
	}
	if starter.Messages != "[]" || starter.Data != "{}" {
		t.Errorf("starter project must be empty, got messages=%q data=%q", starter.Messages, starter.Data)
	}
	if result.Redirect != "/"+starter.ID {
		t.Errorf("expected redirect to starter project, got %q", result.Redirect)
	}
}

func TestSignIn_ReconcileFailureStillSignsIn(t *testing.T) {
	creds := successCredentials()
	repo := &inMemoryRepo{listErr: errors.New("db down")}
	service, _ := newTestService(creds, repo, newMapStorage())

	result := service.SignIn(context.Background(), "a@b.com", "password123", "")

	if !result.Success {
		t.Fatal("auth succeeded; the result must not report failure")
	}
	if result.Redirect != "/" {
		t.Errorf("expected fallback redirect, got %q", result.Redirect)
	}
	if service.InFlight() != 0 {
		t.Error("in-flight counter must be cleared")
	}
}

func TestInFlightCounterDuringAttempt(t *testing.T) {
	creds := successCredentials()
	service, _ := newTestService(creds, &inMemoryRepo{}, newMapStorage())

	if service.InFlight() != 0 {
		t.Fatal("counter must start at zero")
	}

	service.SignIn(context.Background(), "a@b.com", "password123", "")

	if len(creds.inFlight) != 1 || creds.inFlight[0] != 1 {
		t.Errorf("counter must be 1 while the attempt runs, observed %v", creds.inFlight)
	}
	if service.InFlight() != 0 {
		t.Error("counter must return to zero afterwards")
	}
}
