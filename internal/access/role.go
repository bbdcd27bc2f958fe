package access

import (
	"sort"
	"strings"
)

// Role is a member's privilege tier.
type Role string

const (
	RoleMember          Role = "member"
	RoleRegionalContact Role = "regional_contact"
	RoleCommittee       Role = "committee"
	RoleCommitteeLead   Role = "committee_lead"
)

// roleAliases maps stored role values onto the enumeration. Rows written before the
// role rename still carry the older names.
var roleAliases = map[string]Role{
	"member":           RoleMember,
	"regional_contact": RoleRegionalContact,
	"committee":        RoleCommittee,
	"committee_lead":   RoleCommitteeLead,

	"referent":   RoleRegionalContact,
	"copil":      RoleCommittee,
	"copil_plus": RoleCommitteeLead,

	"membre":     RoleMember,
	"moderateur": RoleRegionalContact,
	"admin":      RoleCommittee,
	"superadmin": RoleCommitteeLead,
}

// ParseRole resolves a stored role value. The second result is false when the value
// is outside the enumeration.
func ParseRole(s string) (Role, bool) {
	r, ok := roleAliases[strings.ToLower(strings.TrimSpace(s))]
	return r, ok
}

// Valid reports whether r is one of the four tiers.
func (r Role) Valid() bool {
	return r.rank() >= 0
}

// AtLeast reports whether r is the same tier as other or higher.
// Unknown roles are never at least anything.
func (r Role) AtLeast(other Role) bool {
	return r.rank() >= 0 && r.rank() >= other.rank()
}

func (r Role) rank() int {
	switch r {
	case RoleMember:
		return 0
	case RoleRegionalContact:
		return 1
	case RoleCommittee:
		return 2
	case RoleCommitteeLead:
		return 3
	default:
		return -1
	}
}

// StoredNames returns every stored value that resolves to r, for queries that
// filter on the raw column.
func StoredNames(r Role) []string {
	var names []string
	for name, role := range roleAliases {
		if role == r {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
