package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// withTokenServer points TokenURL at a local server for the duration of
// a test.
func withTokenServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	original := TokenURL
	TokenURL = server.URL
	t.Cleanup(func() {
		TokenURL = original
		server.Close()
	})
}

func TestToken_IsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "expired",
			expiresAt: time.Now().Add(-1 * time.Hour),
			want:      true,
		},
		{
			name:      "expires within buffer",
			expiresAt: time.Now().Add(30 * time.Second),
			want:      true,
		},
		{
			name:      "valid",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := &Token{ExpiresAt: tt.expiresAt}
			if got := token.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExchangeCode(t *testing.T) {
	withTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		if r.FormValue("grant_type") != "authorization_code" {
			t.Errorf("grant_type = %q, want authorization_code", r.FormValue("grant_type"))
		}
		if r.FormValue("code") != "test_code" {
			t.Errorf("code = %q, want test_code", r.FormValue("code"))
		}
		if r.FormValue("code_verifier") != "test_verifier" {
			t.Errorf("code_verifier = %q, want test_verifier", r.FormValue("code_verifier"))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenResponse{
			AccessToken:  "access_token_123",
			TokenType:    "Bearer",
			ExpiresIn:    3600,
			RefreshToken: "refresh_token_456",
		})
	})

	token, err := ExchangeCode(context.Background(), "test_client", "test_code", "http://localhost/callback", "test_verifier")
	if err != nil {
		t.Fatalf("ExchangeCode() error: %v", err)
	}
	if token.AccessToken != "access_token_123" {
		t.Errorf("AccessToken = %q, want access_token_123", token.AccessToken)
	}
	if token.RefreshToken != "refresh_token_456" {
		t.Errorf("RefreshToken = %q, want refresh_token_456", token.RefreshToken)
	}
	if token.IsExpired() {
		t.Error("fresh token should not be expired")
	}
}

func TestExchangeCode_Error(t *testing.T) {
	withTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenResponse{
			Error:     "invalid_grant",
			ErrorDesc: "Authorization code expired",
		})
	})

	_, err := ExchangeCode(context.Background(), "test_client", "bad_code", "http://localhost/callback", "v")
	if err == nil {
		t.Fatal("expected error for invalid_grant response")
	}

	var tokenErr *TokenError
	if !errors.As(err, &tokenErr) {
		t.Fatalf("error = %T, want *TokenError", err)
	}
	if tokenErr.Code != "invalid_grant" {
		t.Errorf("Code = %q, want invalid_grant", tokenErr.Code)
	}
	if !tokenErr.Permanent() {
		t.Error("invalid_grant should be permanent")
	}
}

func TestTokenError_Permanent(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"invalid_grant", true},
		{"invalid_client", true},
		{"invalid_request", false},
		{"server_error", false},
	}
	for _, tt := range tests {
		err := &TokenError{Code: tt.code}
		if got := err.Permanent(); got != tt.want {
			t.Errorf("Permanent(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestRefreshAccessToken(t *testing.T) {
	withTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		if r.FormValue("grant_type") != "refresh_token" {
			t.Errorf("grant_type = %q, want refresh_token", r.FormValue("grant_type"))
		}
		if r.FormValue("refresh_token") != "old_refresh" {
			t.Errorf("refresh_token = %q, want old_refresh", r.FormValue("refresh_token"))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenResponse{
			AccessToken:  "new_access_token",
			TokenType:    "Bearer",
			ExpiresIn:    3600,
			RefreshToken: "new_refresh_token",
		})
	})

	token, err := RefreshAccessToken(context.Background(), "test_client", "old_refresh")
	if err != nil {
		t.Fatalf("RefreshAccessToken() error: %v", err)
	}
	if token.AccessToken != "new_access_token" {
		t.Errorf("AccessToken = %q, want new_access_token", token.AccessToken)
	}
}

func TestNewPKCE(t *testing.T) {
	pkce, err := NewPKCE()
	if err != nil {
		t.Fatalf("NewPKCE() error: %v", err)
	}
	if len(pkce.Verifier) != verifierLength {
		t.Errorf("verifier length = %d, want %d", len(pkce.Verifier), verifierLength)
	}
	if len(pkce.State) != stateLength {
		t.Errorf("state length = %d, want %d", len(pkce.State), stateLength)
	}
	if pkce.Challenge == "" {
		t.Error("challenge is empty")
	}

	other, err := NewPKCE()
	if err != nil {
		t.Fatalf("NewPKCE() error: %v", err)
	}
	if other.Verifier == pkce.Verifier {
		t.Error("two verifiers should not collide")
	}
}

func TestBuildAuthURL(t *testing.T) {
	pkce := &PKCE{Verifier: "v", Challenge: "challenge", State: "state123"}
	u := BuildAuthURL("client123", DefaultRedirectURI, []string{"user-read-private", "streaming"}, pkce)

	for _, want := range []string{
		"client_id=client123",
		"code_challenge=challenge",
		"state=state123",
		"response_type=code",
	} {
		if !strings.Contains(u, want) {
			t.Errorf("auth URL missing %q: %s", want, u)
		}
	}
}
