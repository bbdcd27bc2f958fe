package participation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja-alumni/erp/internal/access"
	"github.com/ja-alumni/erp/internal/event"
	"github.com/ja-alumni/erp/pkg/middleware"
)

type key struct {
	event  int64
	member uuid.UUID
}

type fakeStore struct {
	mu   sync.Mutex
	rows map[key]time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[key]time.Time)}
}

func (s *fakeStore) Exists(_ context.Context, eventID int64, memberID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[key{eventID, memberID}]
	return ok, nil
}

func (s *fakeStore) Add(_ context.Context, eventID int64, memberID uuid.UUID) (*Participation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[key{eventID, memberID}] = time.Now()
	return &Participation{EventID: eventID, MemberID: memberID}, nil
}

func (s *fakeStore) Remove(_ context.Context, eventID int64, memberID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{eventID, memberID}
	_, ok := s.rows[k]
	delete(s.rows, k)
	return ok, nil
}

func (s *fakeStore) Count(_ context.Context, eventID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.rows {
		if k.event == eventID {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) Participants(_ context.Context, eventID int64) ([]*Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Participant
	for k, at := range s.rows {
		if k.event == eventID {
			out = append(out, &Participant{MemberID: k.member, RegisteredAt: at})
		}
	}
	return out, nil
}

type fakeEvents map[int64]*event.Event

func (f fakeEvents) Lookup(_ context.Context, id int64) (*event.Event, access.Target, error) {
	e, ok := f[id]
	if !ok {
		return nil, access.MissingTarget(access.TargetEvent), nil
	}
	return e, e.Target(), nil
}

func ptr(s string) *string { return &s }

func newTestService() *Service {
	events := fakeEvents{
		1: {ID: 1, Title: "Breton brunch", Region: ptr("Bretagne")},
		2: {ID: 2, Title: "Gala"},
	}
	return NewService(newFakeStore(), events, access.NewAuthorizer(nil, nil))
}

func TestToggle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	alice := access.Viewer{ID: uuid.New(), Role: access.RoleMember, Region: "Normandie"}
	bob := access.Viewer{ID: uuid.New(), Role: access.RoleMember, Region: "Bretagne"}

	st, err := svc.Toggle(ctx, alice, 1)
	require.NoError(t, err)
	assert.True(t, st.Registered)
	assert.Equal(t, 1, st.Count)

	st, err = svc.Toggle(ctx, bob, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Count)

	st, err = svc.Toggle(ctx, alice, 1)
	require.NoError(t, err)
	assert.False(t, st.Registered)
	assert.Equal(t, 1, st.Count)

	st, err = svc.Status(ctx, bob, 1)
	require.NoError(t, err)
	assert.True(t, st.Registered)

	_, err = svc.Toggle(ctx, alice, 99)
	var denied *access.DeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, access.ReasonNotFound, denied.Decision.Reason)
}

func TestParticipantsRequireEventManagement(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	member := access.Viewer{ID: uuid.New(), Role: access.RoleMember, Region: "Bretagne"}
	breton := access.Viewer{ID: uuid.New(), Role: access.RoleRegionalContact, Region: "Bretagne"}
	norman := access.Viewer{ID: uuid.New(), Role: access.RoleRegionalContact, Region: "Normandie"}
	committee := access.Viewer{ID: uuid.New(), Role: access.RoleCommittee}

	_, err := svc.Toggle(ctx, member, 1)
	require.NoError(t, err)

	tests := []struct {
		name    string
		viewer  access.Viewer
		eventID int64
		allowed bool
	}{
		{"member", member, 1, false},
		{"contact of the region", breton, 1, true},
		{"contact of another region", norman, 1, false},
		{"contact on national event", breton, 2, false},
		{"committee on national event", committee, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Participants(ctx, tt.viewer, tt.eventID)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			var denied *access.DeniedError
			assert.True(t, errors.As(err, &denied))
		})
	}

	list, err := svc.Participants(ctx, breton, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, member.ID, list[0].MemberID)
}

func TestHandlerToggle(t *testing.T) {
	svc := newTestService()
	viewer := access.Viewer{ID: uuid.New(), Role: access.RoleMember, Region: "Bretagne"}

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithViewer(r.Context(), viewer)))
		})
	})
	router.Mount("/events/{eventId}/participation", NewHandler(svc, nil).Routes())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events/2/participation", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data Status `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.Registered)
	assert.Equal(t, int64(2), body.Data.EventID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/2/participation/participants", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events/abc/participation", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
