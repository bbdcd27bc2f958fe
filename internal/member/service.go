package member

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ja-alumni/erp/internal/access"
	"github.com/ja-alumni/erp/internal/database"
	"github.com/ja-alumni/erp/internal/geo"
)

// Common errors
var (
	ErrMemberNotFound       = errors.New("member not found")
	ErrAlreadyRegistered    = errors.New("profile already exists")
	ErrEmailAlreadyInUse    = errors.New("email already in use")
	ErrInvalidLocation      = errors.New("department does not belong to region")
	ErrDeletionNotScheduled = errors.New("no deletion is scheduled")
)

// Store is the persistence the member service depends on
type Store interface {
	Create(ctx context.Context, m *Member) (*Member, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	GetByEmail(ctx context.Context, email string) (*Member, error)
	Update(ctx context.Context, m *Member) (*Member, error)
	UpdateRole(ctx context.Context, id uuid.UUID, req *UpdateRoleRequest) (*Member, error)
	SetDeletionSchedule(ctx context.Context, id uuid.UUID, at *time.Time) (*Member, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Member, int, error)
}

// Options tune time-based behavior of the service
type Options struct {
	DeletionGracePeriod time.Duration
	ConsentValidity     time.Duration
	Now                 func() time.Time
}

// Service handles member business logic
type Service struct {
	repo  Store
	authz *access.Authorizer
	opts  Options
}

// NewService creates a new member service
func NewService(repo Store, authz *access.Authorizer, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DeletionGracePeriod == 0 {
		opts.DeletionGracePeriod = 7 * 24 * time.Hour
	}
	if opts.ConsentValidity == 0 {
		opts.ConsentValidity = 2 * 365 * 24 * time.Hour
	}
	return &Service{repo: repo, authz: authz, opts: opts}
}

// Viewer resolves the access viewer for a signed-in user, or nil when the user
// has no profile yet.
func (s *Service) Viewer(ctx context.Context, id uuid.UUID) (*access.Viewer, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}
	v := m.Viewer()
	return &v, nil
}

// Register creates the profile of a freshly authenticated user
func (s *Service) Register(ctx context.Context, userID uuid.UUID, req *RegisterRequest) (*Member, error) {
	existing, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyRegistered
	}

	if req.Department != "" && !geo.DepartmentBelongs(req.Region, req.Department) {
		return nil, ErrInvalidLocation
	}

	byEmail, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if byEmail != nil {
		return nil, ErrEmailAlreadyInUse
	}

	m := &Member{
		ID:           userID,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.TrimSpace(req.Email),
		Phone:        req.Phone,
		Region:       req.Region,
		Department:   req.Department,
		ConsentGiven: req.ConsentGiven,
	}
	if req.ConsentGiven {
		now := s.opts.Now()
		m.ConsentUpdatedAt = &now
	}

	created, err := s.repo.Create(ctx, m)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyInUse
		}
		return nil, err
	}
	return created, nil
}

// Me returns the viewer's own record
func (s *Service) Me(ctx context.Context, viewer access.Viewer) (*Member, error) {
	if err := s.authz.Check(ctx, viewer, access.ActionReadOwn, access.MemberTarget(viewer.ID, viewer.Region)).Err(); err != nil {
		return nil, err
	}
	m, err := s.repo.GetByID(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

// ConsentRenewalRequired reports whether m has to renew consent now
func (s *Service) ConsentRenewalRequired(m *Member) bool {
	return m.ConsentRenewalRequired(s.opts.Now(), s.opts.ConsentValidity)
}

// UpdateMe applies the self-service fields of req to the viewer's record. A
// region change without a department clears the stored department.
func (s *Service) UpdateMe(ctx context.Context, viewer access.Viewer, req *UpdateProfileRequest) (*Member, error) {
	m, err := s.repo.GetByID(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}

	applyProfile(m, req, s.opts.Now())

	var region *string
	if m.Region != "" {
		region = &m.Region
	}
	target := access.MemberTarget(viewer.ID, viewer.Region).WithPayload(region, m.Department)
	if err := s.authz.Check(ctx, viewer, access.ActionWriteOwn, target).Err(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, m)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyInUse
		}
		return nil, err
	}
	if updated == nil {
		return nil, ErrMemberNotFound
	}
	return updated, nil
}

func applyProfile(m *Member, req *UpdateProfileRequest, now time.Time) {
	if req.FirstName != nil {
		m.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		m.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		m.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		m.Phone = req.Phone
	}
	if req.Birthday != nil {
		m.Birthday = req.Birthday
	}
	if req.Region != nil && *req.Region != m.Region {
		m.Region = *req.Region
		m.Department = ""
	}
	if req.Department != nil {
		m.Department = *req.Department
	}
	if req.Bio != nil {
		m.Bio = req.Bio
	}
	if req.Situation != nil {
		m.Situation = req.Situation
	}
	if req.MiniEnterpriseYear != nil {
		m.MiniEnterpriseYear = req.MiniEnterpriseYear
	}
	if req.MiniEnterpriseOrg != nil {
		m.MiniEnterpriseOrg = req.MiniEnterpriseOrg
	}
	if req.AvatarURL != nil {
		m.AvatarURL = req.AvatarURL
	}
	if req.ConsentGiven != nil {
		m.ConsentGiven = *req.ConsentGiven
		m.ConsentUpdatedAt = &now
	}
}

// ScheduleDeletion marks the viewer's record for deletion after the grace period
func (s *Service) ScheduleDeletion(ctx context.Context, viewer access.Viewer) (*Member, error) {
	if err := s.authz.Check(ctx, viewer, access.ActionWriteOwn, access.MemberTarget(viewer.ID, viewer.Region)).Err(); err != nil {
		return nil, err
	}
	at := s.opts.Now().Add(s.opts.DeletionGracePeriod)
	m, err := s.repo.SetDeletionSchedule(ctx, viewer.ID, &at)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

// CancelDeletion clears a pending deletion of the viewer's record
func (s *Service) CancelDeletion(ctx context.Context, viewer access.Viewer) (*Member, error) {
	if err := s.authz.Check(ctx, viewer, access.ActionWriteOwn, access.MemberTarget(viewer.ID, viewer.Region)).Err(); err != nil {
		return nil, err
	}
	m, err := s.repo.GetByID(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}
	if m.DeletionScheduledAt == nil {
		return nil, ErrDeletionNotScheduled
	}
	return s.repo.SetDeletionSchedule(ctx, viewer.ID, nil)
}

// Directory lists members visible in the directory with their public fields
func (s *Service) Directory(ctx context.Context, viewer access.Viewer, filter ListFilter, page, perPage int) ([]*Member, int, error) {
	if err := s.authz.Check(ctx, viewer, access.ActionReadOtherSummary, access.MemberTarget(uuid.Nil, filter.Region)).Err(); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, filter, perPage, (page-1)*perPage)
}

// Get returns the member and whether the viewer may see the full record
func (s *Service) Get(ctx context.Context, viewer access.Viewer, id uuid.UUID) (*Member, bool, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if m == nil {
		return nil, false, s.authz.Check(ctx, viewer, access.ActionReadOtherSummary, access.MissingTarget(access.TargetMember)).Err()
	}

	if id == viewer.ID {
		if s.authz.Check(ctx, viewer, access.ActionReadOwn, m.Target()).Allowed {
			return m, true, nil
		}
	}
	if s.authz.Check(ctx, viewer, access.ActionReadOtherFull, m.Target()).Allowed {
		return m, true, nil
	}
	if err := s.authz.Check(ctx, viewer, access.ActionReadOtherSummary, m.Target()).Err(); err != nil {
		return nil, false, err
	}
	return m, false, nil
}

// UpdateRole changes the committee-managed fields of another member
func (s *Service) UpdateRole(ctx context.Context, viewer access.Viewer, id uuid.UUID, req *UpdateRoleRequest) (*Member, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	target := access.MissingTarget(access.TargetMember)
	if m != nil {
		target = m.Target()
	}
	if err := s.authz.Check(ctx, viewer, access.ActionWriteOtherRole, target).Err(); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateRole(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrMemberNotFound
	}
	return updated, nil
}
