package friends

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weight-pals/weight_pals/internal/infra"
)

var (
	// ErrAlreadyFriends is returned when the friendship already exists.
	ErrAlreadyFriends = errors.New("already friends")
	// ErrNotFriends is returned when removing a friendship that does not exist.
	ErrNotFriends = errors.New("not friends")
	// ErrSelfFriend is returned when a user tries to befriend themselves.
	ErrSelfFriend = errors.New("cannot add yourself as a friend")
)

// Repository persists one-directional friendships.
type Repository interface {
	Add(ctx context.Context, userID, friendID string) error
	Remove(ctx context.Context, userID, friendID string) error
	List(ctx context.Context, userID string) ([]string, error)
}

// PostgresRepository stores friendships in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a friendship repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, userID, friendID string) error {
	uid, fid, err := parsePair(userID, friendID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO friendships (user_id, friend_id) VALUES ($1, $2)`, uid, fid)
	return insertFriendshipError(err)
}

func insertFriendshipError(err error) error {
	switch {
	case err == nil:
		return nil
	case infra.IsUniqueViolation(err):
		return ErrAlreadyFriends
	default:
		return fmt.Errorf("insert friendship: %w", err)
	}
}

func (r *PostgresRepository) Remove(ctx context.Context, userID, friendID string) error {
	uid, fid, err := parsePair(userID, friendID)
	if err != nil {
		return ErrNotFriends
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM friendships WHERE user_id = $1 AND friend_id = $2`, uid, fid)
	if err != nil {
		return fmt.Errorf("delete friendship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFriends
	}
	return nil
}

// List returns friend ids in the order they were added.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]string, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT friend_id FROM friendships WHERE user_id = $1 ORDER BY created_at ASC`, uid)
	if err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id.String())
	}
	return ids, rows.Err()
}

func parsePair(userID, friendID string) (uuid.UUID, uuid.UUID, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	fid, err := uuid.Parse(friendID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return uid, fid, nil
}
