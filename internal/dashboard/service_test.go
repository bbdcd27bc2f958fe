package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja-alumni/erp/internal/access"
	"github.com/ja-alumni/erp/internal/member"
	"github.com/ja-alumni/erp/pkg/middleware"
)

type fakeData struct {
	members []*member.Member
	queried []string
}

func (f *fakeData) CountMembers(_ context.Context, region string) (int, error) {
	n := 0
	for _, m := range f.members {
		if region == "" || m.Region == region {
			n++
		}
	}
	return n, nil
}

func (f *fakeData) CountJoinedSince(_ context.Context, region string, since time.Time) (int, error) {
	n := 0
	for _, m := range f.members {
		if (region == "" || m.Region == region) && !m.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeData) CountRegionalContacts(context.Context) (int, error) {
	n := 0
	for _, m := range f.members {
		if m.IsRegionalContact || m.Role == string(access.RoleRegionalContact) {
			n++
		}
	}
	return n, nil
}

func (f *fakeData) CountCommittee(context.Context) (int, error) {
	n := 0
	for _, m := range f.members {
		if r, _ := access.ParseRole(m.Role); r.AtLeast(access.RoleCommittee) {
			n++
		}
	}
	return n, nil
}

func (f *fakeData) CountByRegion(context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, m := range f.members {
		counts[m.Region]++
	}
	return counts, nil
}

func (f *fakeData) ListByRegion(_ context.Context, region string) ([]*member.Member, error) {
	f.queried = append(f.queried, region)
	var out []*member.Member
	for _, m := range f.members {
		if m.Region == region {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeData) CountUpcoming(_ context.Context, region string, _ time.Time) (int, error) {
	if region == "" {
		return 5, nil
	}
	return 2, nil
}

var now = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func fixture() *fakeData {
	mk := func(region, role string, contact bool, age time.Duration) *member.Member {
		return &member.Member{
			ID:                uuid.New(),
			Region:            region,
			Role:              role,
			IsRegionalContact: contact,
			CreatedAt:         now.Add(-age),
		}
	}
	return &fakeData{members: []*member.Member{
		mk("Bretagne", "member", false, time.Hour),
		mk("Bretagne", "member", true, 90*24*time.Hour),
		mk("Bretagne", "copil", false, 400*24*time.Hour),
		mk("Normandie", "member", false, 2*24*time.Hour),
		mk("Normandie", "committee_lead", false, 500*24*time.Hour),
	}}
}

func newTestService(data *fakeData) *Service {
	svc := NewService(data, data, data, access.NewAuthorizer(nil, nil))
	svc.now = func() time.Time { return now }
	return svc
}

func TestRegional(t *testing.T) {
	data := fixture()
	svc := newTestService(data)
	contact := access.Viewer{ID: uuid.New(), Role: access.RoleMember, Region: "Bretagne", RegionalContact: true}

	stats, err := svc.Regional(context.Background(), contact, "Bretagne")
	require.NoError(t, err)
	assert.Equal(t, "Bretagne", stats.Region)
	assert.Equal(t, 3, stats.TotalMembers)
	assert.Equal(t, 1, stats.NewMembers)
	assert.Equal(t, 2, stats.UpcomingEvents)
	assert.Len(t, stats.Members, 3)
	assert.Equal(t, []string{"Bretagne"}, data.queried)

	_, err = svc.Regional(context.Background(), contact, "Normandie")
	var denied *access.DeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, access.ReasonRegionMismatch, denied.Decision.Reason)
	assert.Equal(t, []string{"Bretagne"}, data.queried)

	plain := access.Viewer{ID: uuid.New(), Role: access.RoleMember, Region: "Bretagne"}
	_, err = svc.Regional(context.Background(), plain, "Bretagne")
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, access.ReasonInsufficientRole, denied.Decision.Reason)
}

func TestGlobal(t *testing.T) {
	svc := newTestService(fixture())
	ctx := context.Background()

	committee := access.Viewer{ID: uuid.New(), Role: access.RoleCommittee, Region: "Bretagne"}
	stats, err := svc.Global(ctx, committee)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalMembers)
	assert.Equal(t, 2, stats.NewMembers)
	assert.Equal(t, 1, stats.RegionalContacts)
	assert.Equal(t, 2, stats.CommitteeMembers)
	assert.Equal(t, 5, stats.UpcomingEvents)
	require.NotEmpty(t, stats.Regions)

	byRegion := make(map[string]int)
	for _, rc := range stats.Regions {
		byRegion[rc.Region] = rc.Members
	}
	assert.Equal(t, 3, byRegion["Bretagne"])
	assert.Equal(t, 2, byRegion["Normandie"])
	assert.Equal(t, 0, byRegion["Corse"])

	contact := access.Viewer{ID: uuid.New(), Role: access.RoleRegionalContact, Region: "Bretagne"}
	_, err = svc.Global(ctx, contact)
	assert.Error(t, err)
}

func TestHandlerRegional(t *testing.T) {
	svc := newTestService(fixture())
	viewer := access.Viewer{ID: uuid.New(), Role: access.RoleCommitteeLead, Region: "Bretagne"}

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithViewer(r.Context(), viewer)))
		})
	})
	router.Mount("/dashboard", NewHandler(svc, nil).Routes())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/regions/"+url.PathEscape("Normandie"), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data RegionalStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Normandie", body.Data.Region)
	assert.Equal(t, 2, body.Data.TotalMembers)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/regions/Atlantis", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/region", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
