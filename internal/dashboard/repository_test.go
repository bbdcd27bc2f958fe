package dashboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleFiltersIgnoreStoredCase(t *testing.T) {
	assert.Contains(t, committeeFilter, "LOWER(TRIM(role)) = ANY($1)")
	assert.Contains(t, regionalContactFilter, "LOWER(TRIM(role)) = ANY($1)")

	assert.Subset(t, committeeRoles(), []string{"committee", "copil", "admin", "committee_lead", "copil_plus", "superadmin"})
	assert.Subset(t, regionalContactRoles(), []string{"regional_contact", "referent", "moderateur"})
	for _, r := range append(committeeRoles(), regionalContactRoles()...) {
		assert.Equal(t, r, strings.ToLower(r), "stored names are compared against a lowercased column")
	}
}
