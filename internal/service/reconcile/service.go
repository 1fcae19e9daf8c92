// Package reconcile implements the post-auth flow: sign a visitor in or up,
// then decide where they land - their anonymous work saved as a new project,
// their most recent existing project, or a fresh empty one.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"uigen/internal/anonwork"
	"uigen/internal/auth"
	"uigen/internal/service/project"
)

// Result is the outcome of a sign-in or sign-up attempt.
type Result struct {
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	Redirect    string `json:"redirect,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

// Service runs credential exchange and post-auth reconciliation.
type Service struct {
	credentials auth.CredentialProvider
	projects    *project.Service
	tracker     *anonwork.Tracker
	logger      *slog.Logger

	inFlight atomic.Int64
}

// NewService creates a reconciliation service.
func NewService(
	credentials auth.CredentialProvider,
	projects *project.Service,
	tracker *anonwork.Tracker,
	logger *slog.Logger,
) *Service {
	return &Service{
		credentials: credentials,
		projects:    projects,
		tracker:     tracker,
		logger:      logger,
	}
}

// InFlight reports how many sign-in/sign-up attempts are currently running.
// It is non-zero exactly while an attempt is underway, on every exit path.
func (s *Service) InFlight() int64 {
	return s.inFlight.Load()
}

// SignIn authenticates the visitor and reconciles their session.
func (s *Service) SignIn(ctx context.Context, email, password, anonSessionID string) *Result {
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	credResult, err := s.credentials.SignIn(ctx, email, password)
	return s.afterAuth(ctx, credResult, err, anonSessionID)
}

// SignUp registers the visitor and reconciles their session.
func (s *Service) SignUp(ctx context.Context, email, password, anonSessionID string) *Result {
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	credResult, err := s.credentials.SignUp(ctx, email, password)
	return s.afterAuth(ctx, credResult, err, anonSessionID)
}

func (s *Service) afterAuth(ctx context.Context, credResult *auth.CredentialResult, err error, anonSessionID string) *Result {
	if err != nil {
		s.logger.Error("credential exchange failed", "error", err)
		return &Result{Success: false, Error: "authentication service unavailable"}
	}
	if !credResult.Success {
		return &Result{Success: false, Error: credResult.Error}
	}

	redirect, err := s.reconcile(ctx, credResult.UserID, anonSessionID)
	if err != nil {
		// Auth itself succeeded; losing the redirect would sign the user
		// out of an account they just entered.
		s.logger.Error("post-auth reconciliation failed", "error", err, "user_id", credResult.UserID)
		redirect = "/"
	}

	return &Result{
		Success:     true,
		Redirect:    redirect,
		AccessToken: credResult.AccessToken,
	}
}

// reconcile picks the landing destination for a freshly authenticated user.
// Anonymous work wins over everything; then the most recently updated
// project; then a fresh empty one.
func (s *Service) reconcile(ctx context.Context, userID, anonSessionID string) (string, error) {
	if s.tracker.HasWork(ctx, anonSessionID) {
		if snapshot := s.tracker.Read(ctx, anonSessionID); snapshot != nil {
			created, err := s.projects.Create(ctx, userID, &project.CreateRequest{
				Name:     fmt.Sprintf("Design from %s", time.Now().Format("3:04 PM")),
				Messages: snapshot.Messages,
				Data:     snapshot.FileSystemData,
			})
			if err != nil {
				return "", fmt.Errorf("save anonymous work: %w", err)
			}
			s.tracker.Clear(ctx, anonSessionID)
			return "/" + created.ID, nil
		}
	}

	summaries, err := s.projects.List(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("list projects: %w", err)
	}
	if len(summaries) > 0 {
		return "/" + summaries[0].ID, nil
	}

	created, err := s.projects.Create(ctx, userID, &project.CreateRequest{
		Name: fmt.Sprintf("New Design #%d", time.Now().Unix()),
	})
	if err != nil {
		return "", fmt.Errorf("create starter project: %w", err)
	}
	return "/" + created.ID, nil
}
