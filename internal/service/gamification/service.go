package gamification

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/skilllink/internal/app"
	"github.com/oggyb/skilllink/internal/cache"
	"github.com/oggyb/skilllink/internal/db"
	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/repository"
)

// Points granted per triggering event.
const (
	ForumResponsePoints int64 = 5
	ReactionPoints      int64 = 2
)

const (
	DefaultLeaderboardSize = 10
	MaxLeaderboardSize     = 100
)

// Standing is one leaderboard row.
type Standing struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Points   int64  `json:"points"`
}

// Service implements the points ledger.
// The running total on users.points and the point_entries history are
// always written in the same transaction.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
	points *repository.PointRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
		points: repository.NewPointRepository(appCtx.DB),
	}
}

// Award grants points to a user in its own transaction.
//
// Behavior:
//   - Increments users.points and appends {source, points} atomically.
//   - Unknown user -> NotFound, nothing is written.
//   - After commit the cached leaderboard is bumped (best effort).
//
// Example:
//
//	svc.Award(ctx, userID, db.SourceReaction, gamification.ReactionPoints)
func (s *Service) Award(ctx context.Context, userID, source string, points int64) error {
	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.AwardTx(ctx, tx, userID, source, points)
	})
	if err != nil {
		return err
	}
	s.Committed(ctx, userID, points)
	return nil
}

// AwardTx is Award inside a caller-owned transaction, so the triggering
// write and the award commit or roll back together. The caller must call
// Committed once the transaction has committed.
func (s *Service) AwardTx(ctx context.Context, tx *gorm.DB, userID, source string, points int64) error {
	if points <= 0 {
		return svcErr.InvalidArgument("points must be positive")
	}
	if source == "" {
		return svcErr.InvalidArgument("point source is required")
	}

	if err := s.users.WithTx(tx).IncrementPoints(ctx, userID, points); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return svcErr.NotFound("User not found")
		}
		return err
	}

	entry := &db.PointEntry{UserID: userID, Source: source, Points: points}
	if err := s.points.WithTx(tx).Append(ctx, entry); err != nil {
		return err
	}

	s.appCtx.Logger.Debug("points awarded", "user_id", userID, "source", source, "points", points)
	return nil
}

// Committed propagates an award to the cached leaderboard.
func (s *Service) Committed(ctx context.Context, userID string, points int64) {
	if s.appCtx.RedisCache == nil {
		return
	}
	if err := s.appCtx.RedisCache.AddPoints(ctx, userID, points); err != nil {
		s.appCtx.Logger.Warn("leaderboard update failed", "user_id", userID, "err", err)
	}
}

// History returns the user's point entries in the order they were granted.
func (s *Service) History(ctx context.Context, userID string) ([]db.PointEntry, error) {
	return s.points.History(ctx, userID)
}

// Leaderboard returns the top users by points, ties by id.
// Cache-first strategy:
//  1. Reads the sorted set when it is built.
//  2. Otherwise ranks users from the DB and rebuilds the set.
//  3. Redis failures fall back to the DB.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]Standing, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	if limit > MaxLeaderboardSize {
		limit = MaxLeaderboardSize
	}

	if s.appCtx.RedisCache != nil {
		entries, ok, err := s.appCtx.RedisCache.TopPoints(ctx, limit)
		if err != nil {
			s.appCtx.Logger.Warn("leaderboard cache read failed", "err", err)
		} else if ok {
			return s.fromCache(ctx, entries)
		}
	}

	ranked, err := s.users.WithPoints(ctx, 0)
	if err != nil {
		return nil, err
	}

	if s.appCtx.RedisCache != nil {
		entries := make([]cache.LeaderboardEntry, 0, len(ranked))
		for _, u := range ranked {
			entries = append(entries, cache.LeaderboardEntry{UserID: u.ID, Points: u.Points})
		}
		if err := s.appCtx.RedisCache.ReplaceLeaderboard(ctx, entries); err != nil {
			s.appCtx.Logger.Warn("leaderboard rebuild failed", "err", err)
		}
	}

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]Standing, 0, len(ranked))
	for _, u := range ranked {
		out = append(out, Standing{UserID: u.ID, Username: u.Username, Points: u.Points})
	}
	return out, nil
}

func (s *Service) fromCache(ctx context.Context, entries []cache.LeaderboardEntry) ([]Standing, error) {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.UserID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]Standing, 0, len(entries))
	for _, e := range entries {
		u, ok := users[e.UserID]
		if !ok {
			continue
		}
		out = append(out, Standing{UserID: e.UserID, Username: u.Username, Points: e.Points})
	}
	return out, nil
}
