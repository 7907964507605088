package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"jobboard/internal/config"
)

var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSignupRejected     = errors.New("signup rejected")
	ErrEmailTaken         = errors.New("email already registered")
)

// Identity is the provider-owned subject. This system never mutates it except
// through the provider's own endpoints.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// Provider is the external service of record for authentication. It is
// consumed, never re-implemented.
type Provider interface {
	VerifyToken(ctx context.Context, token string) (Identity, error)
	SignUp(ctx context.Context, email, password string) (Identity, *Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (Identity, Session, error)
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error
}

type Client struct {
	baseURL   string
	anonKey   string
	jwtSecret []byte
	client    *http.Client
	logger    *log.Logger

	now func() time.Time
}

func NewClient(cfg config.SupabaseConfig, logger *log.Logger) *Client {
	var secret []byte
	if s := strings.TrimSpace(cfg.JWTSecret); s != "" {
		secret = []byte(s)
	}
	return &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		anonKey:   strings.TrimSpace(cfg.AnonKey),
		jwtSecret: secret,
		client:    &http.Client{Timeout: 10 * time.Second},
		logger:    logger,
		now:       time.Now,
	}
}

// VerifyToken resolves a bearer token to its identity. Tokens that are not
// well-formed JWTs, or already expired by their own claims, are rejected
// without a network call; accepted tokens are still confirmed with the
// provider, which stays the source of truth.
func (c *Client) VerifyToken(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrInvalidToken
	}
	if err := c.precheckToken(token); err != nil {
		return Identity{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return Identity{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return Identity{}, ErrInvalidToken
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Identity{}, c.upstreamError("VerifyToken", resp)
	}

	var u authUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return Identity{}, err
	}
	ident, ok := u.identity()
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	return ident, nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) (Identity, *Session, error) {
	body := map[string]string{"email": email, "password": password}

	var out signupResponse
	status, err := c.postJSON(ctx, "/auth/v1/signup", "", body, &out)
	if err != nil {
		return Identity{}, nil, err
	}
	if status < 200 || status >= 300 {
		if strings.Contains(strings.ToLower(out.errorMessage()), "already registered") {
			return Identity{}, nil, ErrEmailTaken
		}
		return Identity{}, nil, fmt.Errorf("%w: %s", ErrSignupRejected, out.errorMessage())
	}

	u := out.user()
	ident, ok := u.identity()
	if !ok {
		return Identity{}, nil, fmt.Errorf("%w: no subject returned", ErrSignupRejected)
	}

	if out.AccessToken == "" {
		// Email confirmation pending; the provider issued no session yet.
		return ident, nil, nil
	}
	return ident, &Session{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		TokenType:    out.TokenType,
		ExpiresIn:    out.ExpiresIn,
	}, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (Identity, Session, error) {
	body := map[string]string{"email": email, "password": password}

	var out signupResponse
	status, err := c.postJSON(ctx, "/auth/v1/token?grant_type=password", "", body, &out)
	if err != nil {
		return Identity{}, Session{}, err
	}
	if status == http.StatusBadRequest || status == http.StatusUnauthorized {
		return Identity{}, Session{}, ErrInvalidCredentials
	}
	if status < 200 || status >= 300 {
		return Identity{}, Session{}, fmt.Errorf("sign-in failed: status=%d %s", status, out.errorMessage())
	}

	u := out.user()
	ident, ok := u.identity()
	if !ok || out.AccessToken == "" {
		return Identity{}, Session{}, fmt.Errorf("sign-in failed: no token returned")
	}
	return ident, Session{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		TokenType:    out.TokenType,
		ExpiresIn:    out.ExpiresIn,
	}, nil
}

// UpdatePassword delegates the credential change to the provider under the
// caller's own session. No password material is compared or stored locally.
func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	b, err := json.Marshal(map[string]string{"password": newPassword})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/auth/v1/user", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrInvalidToken
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.upstreamError("UpdatePassword", resp)
	}
	return nil
}

// precheckToken rejects garbage before spending a provider round trip. With a
// configured JWT secret the signature is verified as well; without one only
// the claim shape and expiry are checked.
func (c *Client) precheckToken(token string) error {
	if len(c.jwtSecret) > 0 {
		p := jwtlib.NewParser(jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
		_, err := p.Parse(token, func(*jwtlib.Token) (any, error) { return c.jwtSecret, nil })
		if err != nil {
			return ErrInvalidToken
		}
		return nil
	}

	var claims jwtlib.RegisteredClaims
	if _, _, err := jwtlib.NewParser().ParseUnverified(token, &claims); err != nil {
		return ErrInvalidToken
	}
	if claims.ExpiresAt != nil && c.now().After(claims.ExpiresAt.Time) {
		return ErrInvalidToken
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path, bearer string, body any, out any) (int, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	rb, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, err
	}
	if out != nil && len(rb) > 0 {
		// Error bodies share the envelope; decode failures on them are not fatal.
		if err := json.Unmarshal(rb, out); err != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) upstreamError(op string, resp *http.Response) error {
	rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(rb))
	if c.logger != nil {
		c.logger.Printf("[Identity] %s error status=%d body=%q", op, resp.StatusCode, msg)
	}
	return fmt.Errorf("identity provider %s failed: status=%d", op, resp.StatusCode)
}

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u authUser) identity() (Identity, bool) {
	id, err := uuid.Parse(strings.TrimSpace(u.ID))
	if err != nil {
		return Identity{}, false
	}
	return Identity{ID: id, Email: u.Email}, true
}

// signupResponse covers both provider shapes: a bare user object when email
// confirmation is pending, and a session envelope with an embedded user when
// a token is issued immediately.
type signupResponse struct {
	authUser

	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	User         *authUser `json:"user"`

	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
}

func (r signupResponse) user() authUser {
	if r.User != nil {
		return *r.User
	}
	return r.authUser
}

func (r signupResponse) errorMessage() string {
	if r.ErrorDescription != "" {
		return r.ErrorDescription
	}
	if r.Msg != "" {
		return r.Msg
	}
	return "unknown error"
}

var _ Provider = (*Client)(nil)
