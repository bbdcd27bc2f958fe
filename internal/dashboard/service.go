package dashboard

import (
	"context"
	"time"

	"github.com/ja-alumni/erp/internal/access"
	"github.com/ja-alumni/erp/internal/geo"
	"github.com/ja-alumni/erp/internal/member"
)

const newMemberWindow = 30 * 24 * time.Hour

// Store is the aggregate persistence the dashboards depend on
type Store interface {
	CountMembers(ctx context.Context, region string) (int, error)
	CountJoinedSince(ctx context.Context, region string, since time.Time) (int, error)
	CountRegionalContacts(ctx context.Context) (int, error)
	CountCommittee(ctx context.Context) (int, error)
	CountByRegion(ctx context.Context) (map[string]int, error)
}

// Roster lists the members of one region
type Roster interface {
	ListByRegion(ctx context.Context, region string) ([]*member.Member, error)
}

// EventCounter counts upcoming events of a region, national ones included
type EventCounter interface {
	CountUpcoming(ctx context.Context, region string, now time.Time) (int, error)
}

// Service builds the dashboards
type Service struct {
	repo   Store
	roster Roster
	events EventCounter
	authz  *access.Authorizer
	now    func() time.Time
}

// NewService creates a new dashboard service
func NewService(repo Store, roster Roster, events EventCounter, authz *access.Authorizer) *Service {
	return &Service{repo: repo, roster: roster, events: events, authz: authz, now: time.Now}
}

// Regional returns the dashboard of region. The roster query is bound to the
// region the decision scopes the viewer to.
func (s *Service) Regional(ctx context.Context, viewer access.Viewer, region string) (*RegionalStats, error) {
	d := s.authz.Check(ctx, viewer, access.ActionReadDashboard, access.DashboardTarget(region))
	if err := d.Err(); err != nil {
		return nil, err
	}
	scoped := d.RegionScope()
	if scoped == "" {
		scoped = region
	}

	now := s.now()
	stats := &RegionalStats{Region: scoped, Members: []*member.FullResponse{}}

	var err error
	if stats.TotalMembers, err = s.repo.CountMembers(ctx, scoped); err != nil {
		return nil, err
	}
	if stats.NewMembers, err = s.repo.CountJoinedSince(ctx, scoped, now.Add(-newMemberWindow)); err != nil {
		return nil, err
	}
	if stats.UpcomingEvents, err = s.events.CountUpcoming(ctx, scoped, now); err != nil {
		return nil, err
	}

	members, err := s.roster.ListByRegion(ctx, scoped)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		stats.Members = append(stats.Members, m.ToFull())
	}

	return stats, nil
}

// Global returns the network-wide dashboard
func (s *Service) Global(ctx context.Context, viewer access.Viewer) (*GlobalStats, error) {
	if err := s.authz.Check(ctx, viewer, access.ActionReadDashboard, access.DashboardTarget("")).Err(); err != nil {
		return nil, err
	}

	now := s.now()
	stats := &GlobalStats{}

	var err error
	if stats.TotalMembers, err = s.repo.CountMembers(ctx, ""); err != nil {
		return nil, err
	}
	if stats.NewMembers, err = s.repo.CountJoinedSince(ctx, "", now.Add(-newMemberWindow)); err != nil {
		return nil, err
	}
	if stats.RegionalContacts, err = s.repo.CountRegionalContacts(ctx); err != nil {
		return nil, err
	}
	if stats.CommitteeMembers, err = s.repo.CountCommittee(ctx); err != nil {
		return nil, err
	}
	if stats.UpcomingEvents, err = s.events.CountUpcoming(ctx, "", now); err != nil {
		return nil, err
	}

	counts, err := s.repo.CountByRegion(ctx)
	if err != nil {
		return nil, err
	}
	stats.Regions = make([]RegionCount, 0, len(geo.Regions))
	for _, region := range geo.Regions {
		stats.Regions = append(stats.Regions, RegionCount{Region: region, Members: counts[region]})
	}

	return stats, nil
}
