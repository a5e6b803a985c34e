package weightlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weight-pals/weight_pals/internal/infra"
)

var (
	// ErrDuplicateDay is returned when the user already logged a weight that day.
	ErrDuplicateDay = errors.New("weight already logged for this day")
	// ErrInvalidWeight is returned for non-positive weights.
	ErrInvalidWeight = errors.New("weight must be positive")
)

// Repository persists weight entries.
type Repository interface {
	Create(ctx context.Context, entry Entry) error
	ListByUser(ctx context.Context, userID string) ([]Entry, error)
}

// PostgresRepository stores weight entries in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an entry. The (user_id, logged_on) unique index rejects a
// second entry for the same day.
func (r *PostgresRepository) Create(ctx context.Context, entry Entry) error {
	entryID, err := uuid.Parse(entry.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(entry.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO weight_entries (id, user_id, weight, logged_on, logged_at)
        VALUES ($1, $2, $3, $4, $5)`, entryID, userID, entry.Weight, Day(entry.Date), entry.Date.UTC())
	return insertEntryError(err)
}

func insertEntryError(err error) error {
	switch {
	case err == nil:
		return nil
	case infra.IsUniqueViolation(err):
		return ErrDuplicateDay
	default:
		return fmt.Errorf("insert weight entry: %w", err)
	}
}

// ListByUser returns a user's entries oldest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Entry, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, weight, logged_at FROM weight_entries
        WHERE user_id = $1 ORDER BY logged_at ASC`, uid)
	if err != nil {
		return nil, fmt.Errorf("list weight entries: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			id       uuid.UUID
			loggedAt time.Time
			e        Entry
		)
		if err := rows.Scan(&id, &e.Weight, &loggedAt); err != nil {
			return nil, err
		}
		e.ID = id.String()
		e.UserID = userID
		e.Date = loggedAt.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
