package participation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Repository handles participation persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new participation repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Exists reports whether memberID is registered for eventID
func (r *Repository) Exists(ctx context.Context, eventID int64, memberID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM participations WHERE event_id = $1 AND member_id = $2)`,
		eventID, memberID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check participation: %w", err)
	}
	return exists, nil
}

// Add registers memberID for eventID
func (r *Repository) Add(ctx context.Context, eventID int64, memberID uuid.UUID) (*Participation, error) {
	query := `
		INSERT INTO participations (event_id, member_id)
		VALUES ($1, $2)
		RETURNING id, event_id, member_id, created_at
	`

	p := &Participation{}
	err := r.db.QueryRowContext(ctx, query, eventID, memberID).Scan(&p.ID, &p.EventID, &p.MemberID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add participation: %w", err)
	}
	return p, nil
}

// Remove unregisters memberID from eventID. It reports whether a row was deleted.
func (r *Repository) Remove(ctx context.Context, eventID int64, memberID uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM participations WHERE event_id = $1 AND member_id = $2`, eventID, memberID)
	if err != nil {
		return false, fmt.Errorf("failed to remove participation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// Count returns the number of registrations for eventID
func (r *Repository) Count(ctx context.Context, eventID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participations WHERE event_id = $1`, eventID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count participations: %w", err)
	}
	return n, nil
}

// Participants lists the members registered for eventID in registration order
func (r *Repository) Participants(ctx context.Context, eventID int64) ([]*Participant, error) {
	query := `
		SELECT m.id, m.first_name, m.last_name, m.region, m.avatar_url, p.created_at
		FROM participations p
		JOIN members m ON m.id = p.member_id
		WHERE p.event_id = $1
		ORDER BY p.created_at, m.last_name
	`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []*Participant
	for rows.Next() {
		p := &Participant{}
		if err := rows.Scan(&p.MemberID, &p.FirstName, &p.LastName, &p.Region, &p.AvatarURL, &p.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}

	return participants, rows.Err()
}
