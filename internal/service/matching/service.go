package matching

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/skilllink/internal/app"
	"github.com/oggyb/skilllink/internal/db"
	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/repository"
)

// SwipeResult reports the outcome of a swipe.
type SwipeResult struct {
	Matched bool
	// Created is true only for the swipe that materialized the match.
	Created bool
}

// Service implements swipe recording and match materialization on top of
// the repository and cache layers.
type Service struct {
	appCtx  *app.AppContext
	users   *repository.UserRepository
	swipes  *repository.SwipeRepository
	matches *repository.MatchRepository
}

// NewService creates a matching service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:  appCtx,
		users:   repository.NewUserRepository(appCtx.DB),
		swipes:  repository.NewSwipeRepository(appCtx.DB),
		matches: repository.NewMatchRepository(appCtx.DB),
	}
}

// Swipe records swiper's decision on target and materializes a match when
// the right swipe is reciprocated.
//
// Behavior:
//   - Validates direction and rejects swiping on yourself.
//   - Runs in one transaction that first locks both user rows in id order,
//     so concurrent swipes on the same pair are serialized.
//   - Upserts the swipe (one row per directed pair, last direction wins).
//   - On a right swipe, checks the reverse right swipe and inserts the match
//     with ON CONFLICT DO NOTHING on the pair key.
//   - After commit, drops the target's cached right-swipe count.
//
// Example:
//
//	svc.Swipe(ctx, "alice", "bob", db.DirectionRight)
func (s *Service) Swipe(ctx context.Context, swiperID, targetID, direction string) (SwipeResult, error) {
	s.appCtx.Logger.Debug("Swipe called", "swiper", swiperID, "target", targetID, "direction", direction)

	if direction != db.DirectionLeft && direction != db.DirectionRight {
		return SwipeResult{}, svcErr.InvalidArgument("direction must be 'left' or 'right'")
	}
	if swiperID == "" || targetID == "" {
		return SwipeResult{}, svcErr.InvalidArgument("swiper_id and target_id are required")
	}
	if swiperID == targetID {
		return SwipeResult{}, svcErr.InvalidArgument("cannot swipe on yourself")
	}

	var result SwipeResult
	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.users.WithTx(tx).LockForUpdate(ctx, swiperID, targetID)
		if err != nil {
			return err
		}
		if len(locked) != 2 {
			return svcErr.NotFound("User not found")
		}

		swipes := s.swipes.WithTx(tx)
		if err := swipes.Upsert(ctx, swiperID, targetID, direction); err != nil {
			return err
		}
		if direction != db.DirectionRight {
			return nil
		}

		// reciprocity check
		mutual, err := swipes.HasSwipedRight(ctx, targetID, swiperID)
		if err != nil || !mutual {
			return err
		}

		created, err := s.matches.WithTx(tx).CreateIfAbsent(ctx, swiperID, targetID)
		if err != nil {
			return err
		}
		result = SwipeResult{Matched: true, Created: created}
		return nil
	})
	if err != nil {
		return SwipeResult{}, err
	}

	if s.appCtx.RedisCache != nil {
		if err := s.appCtx.RedisCache.InvalidateRightSwipeCount(ctx, targetID); err != nil {
			s.appCtx.Logger.Warn("right swipe counter invalidation failed", "target", targetID, "err", err)
		}
	}

	if result.Created {
		s.appCtx.Logger.Info("match created", "user1", swiperID, "user2", targetID)
	}
	return result, nil
}

// Matches returns every match the user takes part in.
func (s *Service) Matches(ctx context.Context, userID string) ([]db.Match, error) {
	return s.matches.ListForUser(ctx, userID)
}

// CountRightSwipesReceived returns how many users swiped right on userID.
// Cache-first strategy:
//  1. Attempts to read from Redis (swipes:right:count:userID).
//  2. On a miss or a Redis error, falls back to the DB.
//  3. On DB fetch, updates Redis with a 1h TTL.
//
// Example:
//
//	svc.CountRightSwipesReceived(ctx, "bob")
func (s *Service) CountRightSwipesReceived(ctx context.Context, userID string) (int64, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, svcErr.NotFound("User not found")
		}
		return 0, err
	}

	if s.appCtx.RedisCache != nil {
		if n, ok, err := s.appCtx.RedisCache.GetRightSwipeCount(ctx, userID); err == nil && ok {
			return n, nil
		} else if err != nil {
			s.appCtx.Logger.Warn("right swipe counter read failed", "user", userID, "err", err)
		}
	}

	// fallback: DB
	count, err := s.swipes.CountRightSwipesReceived(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.appCtx.RedisCache != nil {
		_ = s.appCtx.RedisCache.SetRightSwipeCount(ctx, userID, count)
	}
	return count, nil
}
