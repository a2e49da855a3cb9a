package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/skilllink/internal/db"
)

// PointRepository stores the append-only point history.
type PointRepository struct {
	db *gorm.DB
}

func NewPointRepository(database *gorm.DB) *PointRepository {
	return &PointRepository{db: database}
}

func (r *PointRepository) WithTx(tx *gorm.DB) *PointRepository {
	return &PointRepository{db: tx}
}

func (r *PointRepository) Append(ctx context.Context, entry *db.PointEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// History returns a user's entries in the order they were granted.
func (r *PointRepository) History(ctx context.Context, userID string) ([]db.PointEntry, error) {
	entries := []db.PointEntry{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&entries).Error
	return entries, err
}

// Sum totals a user's history. Used to check the running total.
func (r *PointRepository) Sum(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&db.PointEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	return total, err
}
