package member

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFullRendersTimestampsInUTC(t *testing.T) {
	paris := time.FixedZone("CEST", 2*60*60)
	created := time.Date(2026, 4, 10, 9, 30, 0, 0, paris)
	consent := time.Date(2026, 4, 11, 8, 0, 0, 0, paris)

	m := &Member{
		ID:               uuid.New(),
		Role:             "copil",
		CreatedAt:        created,
		UpdatedAt:        created.Add(time.Hour),
		ConsentUpdatedAt: &consent,
	}

	full := m.ToFull()
	assert.Equal(t, "2026-04-10T07:30:00Z", full.CreatedAt)
	assert.Equal(t, "2026-04-10T08:30:00Z", full.UpdatedAt)
	require.NotNil(t, full.ConsentUpdatedAt)
	assert.Equal(t, "2026-04-11T06:00:00Z", *full.ConsentUpdatedAt)
	assert.Equal(t, "committee", full.Role)
}
