package profile

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	RoleApplicant = "applicant"
	RoleCompany   = "company"
	RoleAdmin     = "admin"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrAlreadyExists = errors.New("profile already exists")
)

func ValidRole(role string) bool {
	switch role {
	case RoleApplicant, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// RoleRecord is the authorization row keyed by the identity provider's subject
// id. At most one exists per subject; its absence means the caller is treated
// as unauthenticated regardless of token validity.
type RoleRecord struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ApplicantProfile struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Phone           *string    `json:"phone,omitempty"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
	Address         *string    `json:"address,omitempty"`
	Skills          []string   `json:"skills"`
	ExperienceYears int        `json:"experience_years"`
	ResumeURL       *string    `json:"resume_url"`
	PhotoURL        *string    `json:"photo_url"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type CompanyProfile struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Email         string    `json:"email"`
	CompanyName   string    `json:"company_name"`
	Industry      *string   `json:"industry,omitempty"`
	CompanySize   *string   `json:"company_size,omitempty"`
	Website       *string   `json:"website,omitempty"`
	Description   *string   `json:"description,omitempty"`
	ContactPerson *string   `json:"contact_person,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FilePurpose names the single-file slots an applicant profile owns.
type FilePurpose string

const (
	PurposeResume FilePurpose = "resume"
	PurposePhoto  FilePurpose = "photo"
)
