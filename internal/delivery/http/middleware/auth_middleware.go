package middleware

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"jobboard/internal/domain/profile"
	"jobboard/internal/infrastructure/identity"
	"jobboard/internal/repository"
)

// AuthUser is the authenticated caller as stored on the request context.
// Handlers read it through UserFromCtx, never from raw locals.
type AuthUser struct {
	ID          uuid.UUID
	Email       string
	Role        string
	AccessToken string
}

type authUserCtxKey struct{}

// AuthMiddleware verifies the bearer token against the identity provider and
// attaches the caller's role. Every failure is a 401; requests without a role
// row fail closed even when the token itself is valid.
type AuthMiddleware struct {
	provider identity.Provider
	roles    repository.RoleRepository
	logger   *log.Logger
}

func NewAuthMiddleware(provider identity.Provider, roles repository.RoleRepository, logger *log.Logger) *AuthMiddleware {
	return &AuthMiddleware{provider: provider, roles: roles, logger: logger}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		user, err := m.Resolve(c.Context(), c.Get("Authorization"))
		if err != nil {
			return err
		}

		c.Locals(authUserCtxKey{}, user)
		return c.Next()
	}
}

// Resolve runs the gate against an Authorization header value. Split out of
// the fiber handler so the decision logic is testable on its own.
func (m *AuthMiddleware) Resolve(ctx context.Context, authHeader string) (AuthUser, error) {
	token, ok := bearerTokenFromHeader(authHeader)
	if !ok {
		return AuthUser{}, NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	ident, err := m.provider.VerifyToken(ctx, token)
	if err != nil {
		if !errors.Is(err, identity.ErrInvalidToken) && m.logger != nil {
			m.logger.Printf("[Auth] token verification failed err=%v", err)
		}
		return AuthUser{}, NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	}

	rec, err := m.roles.FindByUserID(ctx, ident.ID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return AuthUser{}, NewAppError(fiber.StatusUnauthorized, "User role not found", nil, err)
		}
		if m.logger != nil {
			m.logger.Printf("[Auth] role lookup failed user_id=%s err=%v", ident.ID, err)
		}
		return AuthUser{}, NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	}

	return AuthUser{
		ID:          ident.ID,
		Email:       ident.Email,
		Role:        rec.Role,
		AccessToken: token,
	}, nil
}

// RequireRole allows only callers whose role is in the given set. It must run
// after Middleware.
func (m *AuthMiddleware) RequireRole(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		user, ok := UserFromCtx(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		for _, r := range roles {
			if user.Role == r {
				return c.Next()
			}
		}
		return NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
	}
}

// UserFromCtx returns the authenticated caller set by AuthMiddleware.
func UserFromCtx(c fiber.Ctx) (AuthUser, bool) {
	user, ok := c.Locals(authUserCtxKey{}).(AuthUser)
	return user, ok
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
