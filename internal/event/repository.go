package event

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const eventColumns = `id, title, description, starts_at, ends_at, location, region, cover_image_url, creator_id, created_at, updated_at`

// Repository handles event data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new event repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*Event, error) {
	e := &Event{}
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.StartsAt,
		&e.EndsAt,
		&e.Location,
		&e.Region,
		&e.CoverImageURL,
		&e.CreatorID,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts a new event
func (r *Repository) Create(ctx context.Context, e *Event) (*Event, error) {
	query := `
		INSERT INTO events (title, description, starts_at, ends_at, location, region, cover_image_url, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + eventColumns

	created, err := scanEvent(r.db.QueryRowContext(ctx, query,
		e.Title, e.Description, e.StartsAt, e.EndsAt, e.Location, e.Region, e.CoverImageURL, e.CreatorID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return created, nil
}

// GetByID retrieves an event by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return e, nil
}

// Update writes every mutable column of e
func (r *Repository) Update(ctx context.Context, e *Event) (*Event, error) {
	query := `
		UPDATE events
		SET title = $2,
		    description = $3,
		    starts_at = $4,
		    ends_at = $5,
		    location = $6,
		    region = $7,
		    cover_image_url = $8,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + eventColumns

	updated, err := scanEvent(r.db.QueryRowContext(ctx, query,
		e.ID, e.Title, e.Description, e.StartsAt, e.EndsAt, e.Location, e.Region, e.CoverImageURL,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return updated, nil
}

// Delete removes an event and, through the foreign key, its participations
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrEventNotFound
	}

	return nil
}

// List returns events starting inside the filter window ordered by start time.
// A region filter keeps national events.
func (r *Repository) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Event, int, error) {
	var (
		conds []string
		args  []any
	)
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("ends_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("starts_at < $%d", len(args)))
	}
	if filter.Region != "" {
		args = append(args, filter.Region)
		conds = append(conds, fmt.Sprintf("(region = $%d OR region IS NULL)", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM events%s ORDER BY starts_at, id LIMIT $%d OFFSET $%d`,
		eventColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	return events, total, rows.Err()
}

// CountUpcoming counts events starting after now, in region or national.
// An empty region counts every event.
func (r *Repository) CountUpcoming(ctx context.Context, region string, now time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM events WHERE starts_at >= $1`
	args := []any{now}
	if region != "" {
		query += ` AND (region = $2 OR region IS NULL)`
		args = append(args, region)
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count upcoming events: %w", err)
	}
	return n, nil
}
