package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/skilllink/internal/db"
)

// SwipeRepository provides data access methods for the Swipe model.
// It encapsulates all queries related to left/right swipes between users.
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB connection.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// WithTx returns a copy bound to an open transaction.
func (r *SwipeRepository) WithTx(tx *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: tx}
}

// Upsert inserts or updates a swipe made by swiper -> target.
//
// Behavior:
//   - If (swiper_id, target_id) pair exists → the row is updated with the new direction.
//   - If it doesn’t exist → a new row is inserted.
//   - Composite PK ensures one swipe per directed pair.
//
// Example:
//
//	repo.Upsert(ctx, "alice", "bob", db.DirectionRight) // alice swiped right on bob
func (r *SwipeRepository) Upsert(ctx context.Context, swiperID, targetID, direction string) error {
	swipe := db.Swipe{
		SwiperID:  swiperID,
		TargetID:  targetID,
		Direction: direction,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "swiper_id"}, {Name: "target_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"direction", "updated_at"}),
		}).
		Create(&swipe).Error
}

// HasSwipedRight checks whether swiper swiped right on target.
//
// Behavior:
//   - Returns true if there exists a swipe row where swiper_id = X,
//     target_id = Y, and direction = right.
//   - Used for the reciprocity check when recording a swipe.
func (r *SwipeRepository) HasSwipedRight(ctx context.Context, swiperID, targetID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("swiper_id = ? AND target_id = ? AND direction = ?", swiperID, targetID, db.DirectionRight).
		Count(&count).Error
	return count > 0, err
}

// Get returns the swipe for a directed pair.
func (r *SwipeRepository) Get(ctx context.Context, swiperID, targetID string) (*db.Swipe, error) {
	var s db.Swipe
	err := r.db.WithContext(ctx).
		Where("swiper_id = ? AND target_id = ?", swiperID, targetID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CountRightSwipesReceived returns how many users swiped right on target.
// Used in conjunction with the Redis cache (DB is fallback).
func (r *SwipeRepository) CountRightSwipesReceived(ctx context.Context, targetID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("target_id = ? AND direction = ?", targetID, db.DirectionRight).
		Count(&count).Error
	return count, err
}
