package member

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ja-alumni/erp/internal/access"
)

const memberColumns = `
	id, first_name, last_name, email, phone, birthday, region, department, role,
	committee_role, committee_start_year, is_regional_contact, bio, situation,
	mini_enterprise_year, mini_enterprise_org, avatar_url, consent_given,
	consent_updated_at, deletion_scheduled_at, created_at, updated_at`

// Repository handles member data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new member repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(row scanner) (*Member, error) {
	m := &Member{}
	err := row.Scan(
		&m.ID,
		&m.FirstName,
		&m.LastName,
		&m.Email,
		&m.Phone,
		&m.Birthday,
		&m.Region,
		&m.Department,
		&m.Role,
		&m.CommitteeRole,
		&m.CommitteeStartYear,
		&m.IsRegionalContact,
		&m.Bio,
		&m.Situation,
		&m.MiniEnterpriseYear,
		&m.MiniEnterpriseOrg,
		&m.AvatarURL,
		&m.ConsentGiven,
		&m.ConsentUpdatedAt,
		&m.DeletionScheduledAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create inserts a new member row keyed by the identity provider's user ID
func (r *Repository) Create(ctx context.Context, m *Member) (*Member, error) {
	query := `
		INSERT INTO members (id, first_name, last_name, email, phone, region, department, consent_given, consent_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + memberColumns

	created, err := scanMember(r.db.QueryRowContext(ctx, query,
		m.ID, m.FirstName, m.LastName, m.Email, m.Phone,
		m.Region, m.Department, m.ConsentGiven, m.ConsentUpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	return created, nil
}

// GetByID retrieves a member by their ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	m, err := scanMember(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return m, nil
}

// GetByEmail retrieves a member by their email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE LOWER(email) = LOWER($1)`

	m, err := scanMember(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member by email: %w", err)
	}

	return m, nil
}

// Update writes the self-service fields of m
func (r *Repository) Update(ctx context.Context, m *Member) (*Member, error) {
	query := `
		UPDATE members
		SET first_name = $2,
		    last_name = $3,
		    email = $4,
		    phone = $5,
		    birthday = $6,
		    region = $7,
		    department = $8,
		    bio = $9,
		    situation = $10,
		    mini_enterprise_year = $11,
		    mini_enterprise_org = $12,
		    avatar_url = $13,
		    consent_given = $14,
		    consent_updated_at = $15,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + memberColumns

	updated, err := scanMember(r.db.QueryRowContext(ctx, query,
		m.ID, m.FirstName, m.LastName, m.Email, m.Phone, m.Birthday,
		m.Region, m.Department, m.Bio, m.Situation,
		m.MiniEnterpriseYear, m.MiniEnterpriseOrg, m.AvatarURL,
		m.ConsentGiven, m.ConsentUpdatedAt,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	return updated, nil
}

// UpdateRole writes the committee-managed fields; nil fields are left unchanged
func (r *Repository) UpdateRole(ctx context.Context, id uuid.UUID, req *UpdateRoleRequest) (*Member, error) {
	query := `
		UPDATE members
		SET role = COALESCE($2, role),
		    committee_role = COALESCE($3, committee_role),
		    committee_start_year = COALESCE($4, committee_start_year),
		    is_regional_contact = COALESCE($5, is_regional_contact),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + memberColumns

	updated, err := scanMember(r.db.QueryRowContext(ctx, query,
		id, req.Role, req.CommitteeRole, req.CommitteeStartYear, req.IsRegionalContact,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update member role: %w", err)
	}

	return updated, nil
}

// SetDeletionSchedule sets or clears the scheduled deletion time
func (r *Repository) SetDeletionSchedule(ctx context.Context, id uuid.UUID, at *time.Time) (*Member, error) {
	query := `
		UPDATE members
		SET deletion_scheduled_at = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + memberColumns

	updated, err := scanMember(r.db.QueryRowContext(ctx, query, id, at))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to schedule member deletion: %w", err)
	}

	return updated, nil
}

// List returns one page of the directory and the total row count for filter
func (r *Repository) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Member, int, error) {
	where, args := buildWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM members` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	orderBy, orderArgs := buildOrder(filter, len(args))
	args = append(args, orderArgs...)
	args = append(args, limit, offset)

	query := fmt.Sprintf(`SELECT %s FROM members%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		memberColumns, where, orderBy, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	return members, total, rows.Err()
}

// ListByRegion returns every member of region ordered by name
func (r *Repository) ListByRegion(ctx context.Context, region string) ([]*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE region = $1 ORDER BY last_name, first_name`

	rows, err := r.db.QueryContext(ctx, query, region)
	if err != nil {
		return nil, fmt.Errorf("failed to list regional members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

func buildWhere(filter ListFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	switch filter.Tab {
	case TabCommittee:
		roles := append(access.StoredNames(access.RoleCommittee), access.StoredNames(access.RoleCommitteeLead)...)
		add("LOWER(TRIM(role)) = ANY($%d)", pq.Array(roles))
	case TabRegionalContacts:
		add("(is_regional_contact OR LOWER(TRIM(role)) = ANY($%d))", pq.Array(access.StoredNames(access.RoleRegionalContact)))
	}

	if filter.Region != "" {
		add("region = $%d", filter.Region)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		add(`(first_name || ' ' || last_name) ILIKE $%d ESCAPE '\'`, "%"+escapeLike(s)+"%")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// likeEscaper makes LIKE wildcards in user input match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func buildOrder(filter ListFilter, argc int) (string, []any) {
	switch filter.Sort {
	case SortName:
		return "last_name, first_name", nil
	case SortYearDesc:
		return "mini_enterprise_year DESC NULLS LAST, last_name, first_name", nil
	case SortYearAsc:
		return "mini_enterprise_year ASC NULLS LAST, last_name, first_name", nil
	}

	switch filter.Tab {
	case TabCommittee:
		return fmt.Sprintf("array_position($%d::text[], committee_role) NULLS LAST, committee_role, last_name, first_name", argc+1),
			[]any{pq.Array(CommitteeOffices)}
	case TabRegionalContacts:
		return "region, last_name, first_name", nil
	}
	return "last_name, first_name", nil
}
