package dashboard

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/ja-alumni/erp/internal/access"
)

// Stored roles are matched case-insensitively, as access.ParseRole reads them.
const (
	regionalContactFilter = `(is_regional_contact OR LOWER(TRIM(role)) = ANY($1))`
	committeeFilter       = `LOWER(TRIM(role)) = ANY($1)`
)

func regionalContactRoles() []string {
	return access.StoredNames(access.RoleRegionalContact)
}

func committeeRoles() []string {
	return append(access.StoredNames(access.RoleCommittee), access.StoredNames(access.RoleCommitteeLead)...)
}

// Repository runs the aggregate queries behind the dashboards
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new dashboard repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CountMembers counts members of region, or of every region when region is empty
func (r *Repository) CountMembers(ctx context.Context, region string) (int, error) {
	return r.count(ctx, "members", region, `TRUE`)
}

// CountJoinedSince counts members created after since
func (r *Repository) CountJoinedSince(ctx context.Context, region string, since time.Time) (int, error) {
	return r.count(ctx, "members joined", region, `created_at >= $1`, since)
}

// CountRegionalContacts counts members holding the regional contact row
func (r *Repository) CountRegionalContacts(ctx context.Context) (int, error) {
	return r.count(ctx, "regional contacts", "", regionalContactFilter, pq.Array(regionalContactRoles()))
}

// CountCommittee counts committee members and leads
func (r *Repository) CountCommittee(ctx context.Context) (int, error) {
	return r.count(ctx, "committee members", "", committeeFilter, pq.Array(committeeRoles()))
}

func (r *Repository) count(ctx context.Context, what, region, cond string, args ...any) (int, error) {
	query := `SELECT COUNT(*) FROM members WHERE ` + cond
	if region != "" {
		args = append(args, region)
		query += fmt.Sprintf(` AND region = $%d`, len(args))
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", what, err)
	}
	return n, nil
}

// CountByRegion returns member counts grouped by stored region
func (r *Repository) CountByRegion(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT region, COUNT(*) FROM members WHERE region <> '' GROUP BY region`)
	if err != nil {
		return nil, fmt.Errorf("failed to count members by region: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			region string
			n      int
		)
		if err := rows.Scan(&region, &n); err != nil {
			return nil, fmt.Errorf("failed to scan region count: %w", err)
		}
		counts[region] = n
	}

	return counts, rows.Err()
}
