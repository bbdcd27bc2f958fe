package member

import (
	"time"

	"github.com/google/uuid"

	"github.com/ja-alumni/erp/internal/access"
)

// Tab selects a partition of the directory
type Tab string

const (
	TabAlumni           Tab = "alumni"
	TabRegionalContacts Tab = "regional_contacts"
	TabCommittee        Tab = "committee"
)

// SortOption orders the directory
type SortOption string

const (
	SortDefault  SortOption = "default"
	SortName     SortOption = "name"
	SortYearDesc SortOption = "year_desc"
	SortYearAsc  SortOption = "year_asc"
)

// CommitteeOffices is the display order of committee role labels
var CommitteeOffices = []string{
	"Présidence",
	"Vice-présidence",
	"Trésorerie",
	"Secrétariat",
	"Coordination des régions",
	"Projets digitaux",
}

// Member represents a registered alumnus
type Member struct {
	ID                  uuid.UUID  `json:"id"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	Email               string     `json:"email"`
	Phone               *string    `json:"phone,omitempty"`
	Birthday            *time.Time `json:"birthday,omitempty"`
	Region              string     `json:"region"`
	Department          string     `json:"department"`
	Role                string     `json:"role"`
	CommitteeRole       *string    `json:"committee_role,omitempty"`
	CommitteeStartYear  *int       `json:"committee_start_year,omitempty"`
	IsRegionalContact   bool       `json:"is_regional_contact"`
	Bio                 *string    `json:"bio,omitempty"`
	Situation           *string    `json:"situation,omitempty"`
	MiniEnterpriseYear  *int       `json:"mini_enterprise_year,omitempty"`
	MiniEnterpriseOrg   *string    `json:"mini_enterprise_org,omitempty"`
	AvatarURL           *string    `json:"avatar_url,omitempty"`
	ConsentGiven        bool       `json:"consent_given"`
	ConsentUpdatedAt    *time.Time `json:"consent_updated_at,omitempty"`
	DeletionScheduledAt *time.Time `json:"deletion_scheduled_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// ListFilter narrows a directory query
type ListFilter struct {
	Tab    Tab
	Region string
	Search string
	Sort   SortOption
}

// Viewer derives the access viewer from the stored row. A stored role outside the
// enumeration is passed through as-is so the policy fails closed on it.
func (m *Member) Viewer() access.Viewer {
	role, ok := access.ParseRole(m.Role)
	if !ok {
		role = access.Role(m.Role)
	}
	return access.Viewer{
		ID:              m.ID,
		Role:            role,
		Region:          m.Region,
		RegionalContact: m.IsRegionalContact,
	}
}

// Target returns the access target for this row
func (m *Member) Target() access.Target {
	return access.MemberTarget(m.ID, m.Region)
}

// ConsentRenewalRequired reports whether consent is missing or older than validity
func (m *Member) ConsentRenewalRequired(now time.Time, validity time.Duration) bool {
	if !m.ConsentGiven || m.ConsentUpdatedAt == nil {
		return true
	}
	return m.ConsentUpdatedAt.Before(now.Add(-validity))
}
