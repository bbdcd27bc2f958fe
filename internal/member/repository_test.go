package member

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWhereEscapesSearchWildcards(t *testing.T) {
	tests := []struct {
		search  string
		pattern string
	}{
		{"Martin", "%Martin%"},
		{"_", `%\_%`},
		{"100%", `%100\%%`},
		{`a\b`, `%a\\b%`},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			where, args := buildWhere(ListFilter{Search: tt.search})
			assert.Contains(t, where, `ILIKE $1 ESCAPE '\'`)
			require.Len(t, args, 1)
			assert.Equal(t, tt.pattern, args[0])
		})
	}
}

func TestBuildWhereMatchesRolesCaseInsensitively(t *testing.T) {
	where, args := buildWhere(ListFilter{Tab: TabCommittee, Region: "Bretagne"})
	assert.Equal(t, " WHERE LOWER(TRIM(role)) = ANY($1) AND region = $2", where)
	require.Len(t, args, 2)

	roles, ok := args[0].(*pq.StringArray)
	require.True(t, ok)
	assert.Subset(t, []string(*roles), []string{"committee", "copil", "admin", "committee_lead", "copil_plus", "superadmin"})
	assert.Equal(t, "Bretagne", args[1])

	where, _ = buildWhere(ListFilter{Tab: TabRegionalContacts})
	assert.Equal(t, " WHERE (is_regional_contact OR LOWER(TRIM(role)) = ANY($1))", where)

	where, args = buildWhere(ListFilter{Tab: TabAlumni})
	assert.Empty(t, where)
	assert.Empty(t, args)
}
