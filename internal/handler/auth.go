package handler

import (
	"log/slog"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"uigen/internal/httputil"
	"uigen/internal/service/reconcile"
)

// AuthHandler handles sign-in and sign-up.
type AuthHandler struct {
	reconcile *reconcile.Service
	logger    *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(reconcileService *reconcile.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{reconcile: reconcileService, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *credentialsRequest) validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required, validation.Length(8, 72)),
	)
}

// SignIn authenticates a visitor and reconciles their session.
// POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, false)
}

// SignUp registers a visitor and reconciles their session.
// POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, true)
}

// handle runs one credential attempt and writes its result. Credential
// failures are a successful HTTP exchange carrying success=false; callers
// branch on the body, not the status.
func (h *AuthHandler) handle(w http.ResponseWriter, r *http.Request, signUp bool) {
	var req credentialsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := req.validate(); err != nil {
		httputil.RespondJSON(w, http.StatusOK, &reconcile.Result{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	anonSessionID := httputil.GetAnonSessionID(r)

	var result *reconcile.Result
	if signUp {
		result = h.reconcile.SignUp(r.Context(), req.Email, req.Password, anonSessionID)
	} else {
		result = h.reconcile.SignIn(r.Context(), req.Email, req.Password, anonSessionID)
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
