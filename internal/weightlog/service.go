package weightlog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/weight-pals/weight_pals/internal/identity"
)

// Service records and lists body-weight measurements.
type Service struct {
	repo  Repository
	users identity.Repository
	now   func() time.Time
}

// NewService builds a weight log service.
func NewService(repo Repository, users identity.Repository) *Service {
	return &Service{repo: repo, users: users, now: time.Now}
}

// LogInput captures a new measurement. A zero Date means now.
type LogInput struct {
	UserID string
	Weight float64
	Date   time.Time
}

// Log stores a measurement unless one already exists for that UTC day.
func (s *Service) Log(ctx context.Context, input LogInput) (Entry, error) {
	if input.Weight <= 0 {
		return Entry{}, ErrInvalidWeight
	}
	if _, err := s.users.FindByID(ctx, input.UserID); err != nil {
		return Entry{}, err
	}
	date := input.Date
	if date.IsZero() {
		date = s.now()
	}

	entry := Entry{
		ID:     uuid.New().String(),
		UserID: input.UserID,
		Weight: input.Weight,
		Date:   date.UTC(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// List returns the user's measurements oldest first.
func (s *Service) List(ctx context.Context, userID string) ([]Entry, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}
