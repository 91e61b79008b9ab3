// internal/pkg/auth/session.go
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// refreshMargin is how long before expiry a proactive refresh kicks in.
const refreshMargin = 60 * time.Second

// TokenPair is the access/refresh token pair issued by the backend.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session holds the terminal's authentication state. The terminal only ever
// consumes tokens, it never signs them, so expiry is read from the access
// token without signature verification; the backend remains the authority
// on validity.
type Session struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger

	mu        sync.Mutex
	pair      TokenPair
	expiresAt time.Time
	userID    string
	userName  string
	loginName string
}

// NewSession creates an unauthenticated session against the backend.
func NewSession(baseURL string, logger *logrus.Logger) *Session {
	if logger == nil {
		logger = logrus.New()
	}
	return &Session{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type loginRequest struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Pin      string `json:"pin,omitempty"`
}

type loginResponse struct {
	TokenPair
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// Login authenticates with username and password.
func (s *Session) Login(ctx context.Context, username, password string) error {
	return s.authenticate(ctx, "/api/auth/login", loginRequest{
		Username: username,
		Password: password,
	})
}

// LoginPin authenticates a known user with their PIN code, the fast path
// used behind the bar.
func (s *Session) LoginPin(ctx context.Context, username, pin string) error {
	return s.authenticate(ctx, "/api/auth/pin-login", loginRequest{
		Username: username,
		Pin:      pin,
	})
}

func (s *Session) authenticate(ctx context.Context, path string, req loginRequest) error {
	var resp loginResponse
	if err := s.post(ctx, path, req, &resp); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = resp.TokenPair
	s.expiresAt = tokenExpiry(resp.AccessToken)
	s.userID = resp.UserID
	s.userName = resp.UserName
	s.loginName = req.Username

	s.logger.WithFields(logrus.Fields{
		"user":       resp.UserName,
		"expires_at": s.expiresAt.Format(time.RFC3339),
	}).Info("Session established")
	return nil
}

// AccessToken returns the current access token, "" when logged out.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair.AccessToken
}

// User returns the authenticated user's id and display name.
func (s *Session) User() (id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.userName
}

// LoginName returns the username the session was established with, "" when
// logged out. Caches keyed by username (the PIN cache) use it, not the
// backend's user id.
func (s *Session) LoginName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginName
}

// Authenticated reports whether a token pair is held.
func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}

// ShouldRefresh reports whether the access token is expired or about to
// expire. Tokens without a parseable expiry always report true so the
// backend gets the final say.
func (s *Session) ShouldRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pair.AccessToken == "" {
		return false
	}
	return time.Now().Add(refreshMargin).After(s.expiresAt)
}

// Refresh exchanges the refresh token for a new pair.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	refreshToken := s.pair.RefreshToken
	s.mu.Unlock()

	if refreshToken == "" {
		return fmt.Errorf("no refresh token held")
	}

	var resp loginResponse
	body := map[string]string{"refreshToken": refreshToken}
	if err := s.post(ctx, "/api/auth/refresh", body, &resp); err != nil {
		return fmt.Errorf("token refresh failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = resp.TokenPair
	s.expiresAt = tokenExpiry(resp.AccessToken)
	return nil
}

// Logout drops the held tokens. Purely local; the backend invalidates
// refresh tokens on its own schedule.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = TokenPair{}
	s.expiresAt = time.Time{}
	s.userID = ""
	s.userName = ""
	s.loginName = ""
}

func (s *Session) post(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// tokenExpiry extracts the exp claim without verifying the signature. A
// token that cannot be parsed gets a zero expiry, which forces a refresh on
// first use.
func tokenExpiry(token string) time.Time {
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
