package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"jobboard/internal/domain/profile"
	"jobboard/internal/infrastructure/identity"
	"jobboard/internal/repository"
)

var ErrEmailAlreadyRegistered = errors.New("email already registered")

type SignupInput struct {
	Email    string
	Password string
	Role     string
}

type SignupResult struct {
	User                      AccountView
	Session                   *identity.Session
	RequiresEmailVerification bool
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	User     AccountView
	Session  identity.Session
	Redirect string
}

type RegisterCompanyInput struct {
	Email         string
	Password      string
	CompanyName   string
	Industry      *string
	CompanySize   *string
	Website       *string
	Description   *string
	ContactPerson *string
	Phone         *string
	Address       *string
}

type RegisterCompanyResult struct {
	User           AccountView
	Session        *identity.Session
	CompanyProfile profile.CompanyProfile
}

type ChangePasswordInput struct {
	NewPassword string
}

// AccountView is the identity enriched with this system's role, as returned
// to clients.
type AccountView struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role,omitempty"`
}

type AuthUsecase interface {
	Signup(ctx context.Context, in SignupInput) (SignupResult, error)
	Login(ctx context.Context, in LoginInput) (LoginResult, error)
	RegisterCompany(ctx context.Context, in RegisterCompanyInput) (RegisterCompanyResult, error)
	ChangePassword(ctx context.Context, accessToken string, in ChangePasswordInput) error
}

type AuthService struct {
	provider  identity.Provider
	roles     repository.RoleRepository
	companies repository.CompanyProfileRepository
	origin    string
	logger    *log.Logger
}

func NewAuthService(provider identity.Provider, roles repository.RoleRepository, companies repository.CompanyProfileRepository, origin string, logger *log.Logger) *AuthService {
	return &AuthService{
		provider:  provider,
		roles:     roles,
		companies: companies,
		origin:    strings.TrimRight(strings.TrimSpace(origin), "/"),
		logger:    logger,
	}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (SignupResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || strings.TrimSpace(in.Password) == "" {
		return SignupResult{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	if !profile.ValidRole(in.Role) {
		return SignupResult{}, fmt.Errorf("%w: role must be applicant, company or admin", ErrInvalidInput)
	}

	ident, sess, err := s.provider.SignUp(ctx, email, in.Password)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return SignupResult{}, ErrEmailAlreadyRegistered
		}
		if errors.Is(err, identity.ErrSignupRejected) {
			return SignupResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return SignupResult{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if err := s.ensureRoleRecord(ctx, ident, in.Role); err != nil {
		return SignupResult{}, fmt.Errorf("%w: could not record user role: %v", ErrUpstream, err)
	}

	return SignupResult{
		User:                      AccountView{ID: ident.ID, Email: ident.Email, Role: in.Role},
		Session:                   sess,
		RequiresEmailVerification: sess == nil,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || strings.TrimSpace(in.Password) == "" {
		return LoginResult{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	ident, sess, err := s.provider.SignInWithPassword(ctx, email, in.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return LoginResult{}, ErrUnauthorized
		}
		return LoginResult{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	role := ""
	if rec, err := s.roles.FindByUserID(ctx, ident.ID); err == nil {
		role = rec.Role
	} else if !errors.Is(err, profile.ErrNotFound) {
		return LoginResult{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	redirect := s.origin + "/companydashboard"
	if role == profile.RoleApplicant {
		redirect = s.origin + "/jobs"
	}

	return LoginResult{
		User:     AccountView{ID: ident.ID, Email: ident.Email, Role: role},
		Session:  sess,
		Redirect: redirect,
	}, nil
}

func (s *AuthService) RegisterCompany(ctx context.Context, in RegisterCompanyInput) (RegisterCompanyResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || strings.TrimSpace(in.Password) == "" || strings.TrimSpace(in.CompanyName) == "" {
		return RegisterCompanyResult{}, fmt.Errorf("%w: missing required fields", ErrInvalidInput)
	}

	ident, sess, err := s.provider.SignUp(ctx, email, in.Password)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return RegisterCompanyResult{}, ErrEmailAlreadyRegistered
		}
		if errors.Is(err, identity.ErrSignupRejected) {
			return RegisterCompanyResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return RegisterCompanyResult{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if err := s.ensureRoleRecord(ctx, ident, profile.RoleCompany); err != nil {
		return RegisterCompanyResult{}, fmt.Errorf("%w: could not record user role: %v", ErrUpstream, err)
	}

	cp, err := s.companies.Create(ctx, profile.CompanyProfile{
		ID:            uuid.New(),
		UserID:        ident.ID,
		Email:         ident.Email,
		CompanyName:   strings.TrimSpace(in.CompanyName),
		Industry:      in.Industry,
		CompanySize:   in.CompanySize,
		Website:       in.Website,
		Description:   in.Description,
		ContactPerson: in.ContactPerson,
		Phone:         in.Phone,
		Address:       in.Address,
	})
	if err != nil {
		return RegisterCompanyResult{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return RegisterCompanyResult{
		User:           AccountView{ID: ident.ID, Email: ident.Email, Role: profile.RoleCompany},
		Session:        sess,
		CompanyProfile: cp,
	}, nil
}

// ChangePassword hands the credential change to the identity provider under
// the caller's session. No password material is compared or stored here.
func (s *AuthService) ChangePassword(ctx context.Context, accessToken string, in ChangePasswordInput) error {
	if len(strings.TrimSpace(in.NewPassword)) < 6 {
		return fmt.Errorf("%w: new password must be at least 6 characters", ErrInvalidInput)
	}
	if err := s.provider.UpdatePassword(ctx, accessToken, in.NewPassword); err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			return ErrUnauthorized
		}
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return nil
}

// ensureRoleRecord inserts the authorization row, falling back to updating
// the role when the row already exists. When both attempts fail the error is
// surfaced: the gate fails closed without a role row, so a quiet success here
// would leave the new account locked out.
func (s *AuthService) ensureRoleRecord(ctx context.Context, ident identity.Identity, role string) error {
	err := s.roles.Insert(ctx, profile.RoleRecord{UserID: ident.ID, Email: ident.Email, Role: role})
	if err == nil {
		return nil
	}
	if s.logger != nil {
		s.logger.Printf("[Auth] role insert failed, trying update user_id=%s err=%v", ident.ID, err)
	}
	if err := s.roles.UpdateRole(ctx, ident.ID, role); err != nil {
		if s.logger != nil {
			s.logger.Printf("[Auth] role update failed user_id=%s err=%v", ident.ID, err)
		}
		return err
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ AuthUsecase = (*AuthService)(nil)
