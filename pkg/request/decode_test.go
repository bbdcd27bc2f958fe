package request

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string    `json:"name" validate:"required,min=2"`
	Email    string    `json:"email" validate:"required,email"`
	Region   *string   `json:"region,omitempty" validate:"omitempty,region"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required,gtefield=StartsAt"`
}

func TestDecodeValid(t *testing.T) {
	body := `{"name":"Ana","email":"ana@example.org","region":"Bretagne",
		"starts_at":"2026-05-01T10:00:00Z","ends_at":"2026-05-01T12:00:00Z"}`
	r := httptest.NewRequest("POST", "/", strings.NewReader(body))

	var s sample
	require.NoError(t, Decode(r, &s))
	assert.Equal(t, "Bretagne", *s.Region)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))
	var s sample
	assert.ErrorIs(t, Decode(r, &s), ErrInvalidBody)
}

func TestDecodeReportsJSONFieldNames(t *testing.T) {
	body := `{"name":"A","email":"nope","region":"Atlantis",
		"starts_at":"2026-05-01T10:00:00Z","ends_at":"2026-04-01T12:00:00Z"}`
	r := httptest.NewRequest("POST", "/", strings.NewReader(body))

	var s sample
	err := Decode(r, &s)
	require.Error(t, err)

	msg := Message(err)
	assert.Contains(t, msg, "name: failed min=2")
	assert.Contains(t, msg, "email: failed email")
	assert.Contains(t, msg, "region: failed region")
	assert.Contains(t, msg, "ends_at: failed gtefield=StartsAt")
}

func TestMessagePassesThroughOtherErrors(t *testing.T) {
	assert.Equal(t, "invalid request body", Message(ErrInvalidBody))
}
