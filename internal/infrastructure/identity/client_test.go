package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"jobboard/internal/config"
)

const testSecret = "test-jwt-secret"

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := jwtlib.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwtlib.NewNumericDate(exp),
	}
	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func newTestClient(t *testing.T, handler http.Handler, jwtSecret string) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	c := NewClient(config.SupabaseConfig{
		URL:       ts.URL,
		AnonKey:   "anon-key",
		JWTSecret: jwtSecret,
	}, nil)
	return c, ts
}

func TestVerifyToken_Success(t *testing.T) {
	var gotAuth, gotAPIKey string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("apikey")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"8a3d42de-5a5b-4b2c-9c1f-6d2c19e2a111","email":"jane@x.com"}`))
	}), "")

	token := signedToken(t, "8a3d42de-5a5b-4b2c-9c1f-6d2c19e2a111", time.Now().Add(time.Hour))
	ident, err := c.VerifyToken(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ident.Email != "jane@x.com" {
		t.Fatalf("unexpected email %q", ident.Email)
	}
	if gotAuth != "Bearer "+token {
		t.Fatalf("authorization header not forwarded: %q", gotAuth)
	}
	if gotAPIKey != "anon-key" {
		t.Fatalf("apikey header missing: %q", gotAPIKey)
	}
}

func TestVerifyToken_GarbageRejectedWithoutNetworkCall(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}), "")

	_, err := c.VerifyToken(context.Background(), "not-a-jwt")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no provider call, got %d", calls)
	}
}

func TestVerifyToken_ExpiredRejectedLocally(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}), "")

	token := signedToken(t, "sub", time.Now().Add(-time.Hour))
	_, err := c.VerifyToken(context.Background(), token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no provider call, got %d", calls)
	}
}

func TestVerifyToken_BadSignatureRejectedWhenSecretConfigured(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}), "a-different-secret")

	token := signedToken(t, "sub", time.Now().Add(time.Hour))
	_, err := c.VerifyToken(context.Background(), token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no provider call, got %d", calls)
	}
}

func TestVerifyToken_ProviderRejects(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), "")

	token := signedToken(t, "sub", time.Now().Add(time.Hour))
	_, err := c.VerifyToken(context.Background(), token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestSignUp_SessionIssued(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/signup" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"access_token":"at","refresh_token":"rt","token_type":"bearer","expires_in":3600,
			"user":{"id":"8a3d42de-5a5b-4b2c-9c1f-6d2c19e2a111","email":"jane@x.com"}
		}`))
	}), "")

	ident, sess, err := c.SignUp(context.Background(), "jane@x.com", "pw")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sess == nil || sess.AccessToken != "at" {
		t.Fatalf("expected session, got %+v", sess)
	}
	if ident.Email != "jane@x.com" {
		t.Fatalf("unexpected identity %+v", ident)
	}
}

func TestSignUp_ConfirmationPending(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"8a3d42de-5a5b-4b2c-9c1f-6d2c19e2a111","email":"jane@x.com"}`))
	}), "")

	_, sess, err := c.SignUp(context.Background(), "jane@x.com", "pw")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected nil session before email confirmation, got %+v", sess)
	}
}

func TestSignInWithPassword_BadCredentials(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
	}), "")

	_, _, err := c.SignInWithPassword(context.Background(), "jane@x.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
