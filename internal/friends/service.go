package friends

import (
	"context"
	"log/slog"

	"github.com/weight-pals/weight_pals/internal/identity"
	"github.com/weight-pals/weight_pals/internal/notification"
	"github.com/weight-pals/weight_pals/internal/weightlog"
)

// Friend is the public view of a friend.
type Friend struct {
	ID       string            `json:"id"`
	Username string            `json:"username"`
	FullName identity.FullName `json:"full_name"`
}

// FriendLog pairs a friend with their weight log.
type FriendLog struct {
	Friend
	WeightLog []weightlog.Entry `json:"weight_log"`
}

// Service manages a user's friend list.
type Service struct {
	repo     Repository
	users    identity.Repository
	weights  *weightlog.Service
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService constructs a friends service. notifier may be nil.
func NewService(repo Repository, users identity.Repository, weights *weightlog.Service, notifier notification.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, users: users, weights: weights, notifier: notifier, logger: logger}
}

// Add makes friendID a friend of userID. Both users must exist.
func (s *Service) Add(ctx context.Context, userID, friendID string) (Friend, error) {
	if userID == friendID {
		return Friend{}, ErrSelfFriend
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Friend{}, err
	}
	friend, err := s.users.FindByID(ctx, friendID)
	if err != nil {
		return Friend{}, err
	}
	if err := s.repo.Add(ctx, user.ID, friend.ID); err != nil {
		return Friend{}, err
	}

	if s.notifier != nil {
		msg := notification.Message{
			Kind:        notification.KindFriendAdded,
			Destination: friend.ID,
			Body:        user.FullName.String() + " added you as a friend",
		}
		if err := s.notifier.Send(ctx, msg); err != nil {
			s.logger.Warn("friends.add notify failed", slog.String("user_id", user.ID), slog.Any("error", err))
		}
	}
	return toFriend(friend), nil
}

// Remove deletes friendID from userID's friend list.
func (s *Service) Remove(ctx context.Context, userID, friendID string) error {
	return s.repo.Remove(ctx, userID, friendID)
}

// List returns userID's friends. Friends whose account has gone are skipped.
func (s *Service) List(ctx context.Context, userID string) ([]Friend, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]Friend, 0, len(ids))
	for _, id := range ids {
		u, err := s.users.FindByID(ctx, id)
		if err != nil {
			s.logger.Debug("friends.list skipping missing friend", slog.String("friend_id", id))
			continue
		}
		out = append(out, toFriend(u))
	}
	return out, nil
}

// Logs returns the weight log of every friend of userID.
func (s *Service) Logs(ctx context.Context, userID string) ([]FriendLog, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]FriendLog, 0, len(list))
	for _, f := range list {
		entries, err := s.weights.List(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, FriendLog{Friend: f, WeightLog: entries})
	}
	return out, nil
}

// Name returns the full name of any user.
func (s *Service) Name(ctx context.Context, userID string) (identity.FullName, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return identity.FullName{}, err
	}
	return u.FullName, nil
}

func toFriend(u identity.User) Friend {
	return Friend{ID: u.ID, Username: u.Username, FullName: u.FullName}
}
