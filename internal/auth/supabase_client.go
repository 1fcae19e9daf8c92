package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SupabaseClient implements CredentialProvider against the Supabase Auth
// HTTP API. Credential validation and session issuance are entirely the
// provider's concern; a failed attempt is a result, not an error.
type SupabaseClient struct {
	supabaseURL string
	apiKey      string
	httpClient  *http.Client
}

// NewSupabaseClient creates a credential client using the project anon key.
func NewSupabaseClient(supabaseURL, apiKey string) *SupabaseClient {
	return &SupabaseClient{
		supabaseURL: supabaseURL,
		apiKey:      apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type credentialRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	// Error shapes vary between endpoints
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
}

// SignIn performs a password grant against the auth service.
func (c *SupabaseClient) SignIn(ctx context.Context, email, password string) (*CredentialResult, error) {
	url := fmt.Sprintf("%s/auth/v1/token?grant_type=password", c.supabaseURL)
	return c.post(ctx, url, email, password)
}

// SignUp registers a new account and returns its first session.
func (c *SupabaseClient) SignUp(ctx context.Context, email, password string) (*CredentialResult, error) {
	url := fmt.Sprintf("%s/auth/v1/signup", c.supabaseURL)
	return c.post(ctx, url, email, password)
}

func (c *SupabaseClient) post(ctx context.Context, url, email, password string) (*CredentialResult, error) {
	payload, err := json.Marshal(credentialRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("marshal credential request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create credential request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("credential request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read credential response: %w", err)
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode credential response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || parsed.User.ID == "" {
		msg := parsed.ErrorDescription
		if msg == "" {
			msg = parsed.Msg
		}
		if msg == "" {
			msg = fmt.Sprintf("authentication failed (status %d)", resp.StatusCode)
		}
		return &CredentialResult{Success: false, Error: msg}, nil
	}

	return &CredentialResult{
		Success:     true,
		UserID:      parsed.User.ID,
		AccessToken: parsed.AccessToken,
	}, nil
}
