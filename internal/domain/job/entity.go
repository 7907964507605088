package job

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("job not found")

type Job struct {
	ID           uuid.UUID `json:"id"`
	CompanyID    uuid.UUID `json:"company_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
	Location     *string   `json:"location,omitempty"`
	Industry     *string   `json:"industry,omitempty"`
	JobType      *string   `json:"job_type,omitempty"`
	SalaryMin    *int64    `json:"salary_min,omitempty"`
	SalaryMax    *int64    `json:"salary_max,omitempty"`
	IsActive     bool      `json:"is_active"`
	IsUrgent     bool      `json:"is_urgent"`
	IsFeatured   bool      `json:"is_featured"`
	IsRemote     bool      `json:"is_remote"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Filter holds the public listing filters. Boolean filters only constrain the
// result when set to true, matching the original query semantics.
type Filter struct {
	Location string
	Industry string
	Urgent   bool
	Featured bool
	Remote   bool
}
