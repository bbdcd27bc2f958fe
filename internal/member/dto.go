package member

import (
	"time"

	"github.com/google/uuid"

	"github.com/ja-alumni/erp/internal/access"
)

const dateFormat = "2006-01-02T15:04:05Z"

// RegisterRequest represents the request body for completing a registration
type RegisterRequest struct {
	FirstName    string  `json:"first_name" validate:"required,min=1,max=100"`
	LastName     string  `json:"last_name" validate:"required,min=1,max=100"`
	Email        string  `json:"email" validate:"required,email"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Region       string  `json:"region" validate:"omitempty,region"`
	Department   string  `json:"department" validate:"omitempty,max=100"`
	ConsentGiven bool    `json:"consent_given"`
}

// UpdateProfileRequest carries the self-service fields of a profile
type UpdateProfileRequest struct {
	FirstName          *string    `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName           *string    `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Email              *string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone              *string    `json:"phone,omitempty" validate:"omitempty,max=30"`
	Birthday           *time.Time `json:"birthday,omitempty"`
	Region             *string    `json:"region,omitempty" validate:"omitempty,region"`
	Department         *string    `json:"department,omitempty" validate:"omitempty,max=100"`
	Bio                *string    `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Situation          *string    `json:"situation,omitempty" validate:"omitempty,max=100"`
	MiniEnterpriseYear *int       `json:"mini_enterprise_year,omitempty" validate:"omitempty,min=1950,max=2100"`
	MiniEnterpriseOrg  *string    `json:"mini_enterprise_org,omitempty" validate:"omitempty,max=100"`
	AvatarURL          *string    `json:"avatar_url,omitempty" validate:"omitempty,url"`
	ConsentGiven       *bool      `json:"consent_given,omitempty"`
}

// UpdateRoleRequest carries the committee-managed fields of a profile
type UpdateRoleRequest struct {
	Role               *string `json:"role,omitempty" validate:"omitempty,oneof=member regional_contact committee committee_lead"`
	CommitteeRole      *string `json:"committee_role,omitempty" validate:"omitempty,max=100"`
	CommitteeStartYear *int    `json:"committee_start_year,omitempty" validate:"omitempty,min=1950,max=2100"`
	IsRegionalContact  *bool   `json:"is_regional_contact,omitempty"`
}

// SummaryResponse holds the public directory fields of a member
type SummaryResponse struct {
	ID                 uuid.UUID `json:"id"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Region             string    `json:"region,omitempty"`
	Department         string    `json:"department,omitempty"`
	Role               string    `json:"role"`
	CommitteeRole      *string   `json:"committee_role,omitempty"`
	CommitteeStartYear *int      `json:"committee_start_year,omitempty"`
	IsRegionalContact  bool      `json:"is_regional_contact"`
	Situation          *string   `json:"situation,omitempty"`
	MiniEnterpriseYear *int      `json:"mini_enterprise_year,omitempty"`
	MiniEnterpriseOrg  *string   `json:"mini_enterprise_org,omitempty"`
	Bio                *string   `json:"bio,omitempty"`
	AvatarURL          *string   `json:"avatar_url,omitempty"`
}

// FullResponse holds every field of a member record
type FullResponse struct {
	SummaryResponse
	Email               string  `json:"email"`
	Phone               *string `json:"phone,omitempty"`
	Birthday            *string `json:"birthday,omitempty"`
	ConsentGiven        bool    `json:"consent_given"`
	ConsentUpdatedAt    *string `json:"consent_updated_at,omitempty"`
	DeletionScheduledAt *string `json:"deletion_scheduled_at,omitempty"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

// MeResponse is the signed-in member's own record
type MeResponse struct {
	FullResponse
	ConsentRenewalRequired bool `json:"consent_renewal_required"`
}

// ToSummary converts a Member to its public fields
func (m *Member) ToSummary() *SummaryResponse {
	role := m.Role
	if r, ok := access.ParseRole(m.Role); ok {
		role = string(r)
	}
	return &SummaryResponse{
		ID:                 m.ID,
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		Region:             m.Region,
		Department:         m.Department,
		Role:               role,
		CommitteeRole:      m.CommitteeRole,
		CommitteeStartYear: m.CommitteeStartYear,
		IsRegionalContact:  m.IsRegionalContact,
		Situation:          m.Situation,
		MiniEnterpriseYear: m.MiniEnterpriseYear,
		MiniEnterpriseOrg:  m.MiniEnterpriseOrg,
		Bio:                m.Bio,
		AvatarURL:          m.AvatarURL,
	}
}

// ToFull converts a Member to its full record
func (m *Member) ToFull() *FullResponse {
	resp := &FullResponse{
		SummaryResponse:     *m.ToSummary(),
		Email:               m.Email,
		Phone:               m.Phone,
		ConsentGiven:        m.ConsentGiven,
		ConsentUpdatedAt:    formatTime(m.ConsentUpdatedAt),
		DeletionScheduledAt: formatTime(m.DeletionScheduledAt),
		CreatedAt:           m.CreatedAt.UTC().Format(dateFormat),
		UpdatedAt:           m.UpdatedAt.UTC().Format(dateFormat),
	}
	if m.Birthday != nil {
		b := m.Birthday.Format("2006-01-02")
		resp.Birthday = &b
	}
	return resp
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(dateFormat)
	return &s
}
