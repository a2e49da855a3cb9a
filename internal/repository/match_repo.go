package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/skilllink/internal/db"
)

// MatchRepository stores mutual right swipes.
type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

func (r *MatchRepository) WithTx(tx *gorm.DB) *MatchRepository {
	return &MatchRepository{db: tx}
}

// CreateIfAbsent materializes the match for the unordered pair {user1, user2}.
//
// Behavior:
//   - ON CONFLICT (pair_key) DO NOTHING, so a pair matches at most once even
//     when both sides complete the match concurrently.
//   - created reports whether this call inserted the row.
func (r *MatchRepository) CreateIfAbsent(ctx context.Context, user1, user2 string) (created bool, err error) {
	m := db.Match{
		ID:      newSortableID(),
		User1:   user1,
		User2:   user2,
		PairKey: db.PairKey(user1, user2),
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pair_key"}},
			DoNothing: true,
		}).
		Create(&m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListForUser returns all matches where the user appears on either side.
func (r *MatchRepository) ListForUser(ctx context.Context, userID string) ([]db.Match, error) {
	matches := []db.Match{}
	err := r.db.WithContext(ctx).
		Where("user1 = ? OR user2 = ?", userID, userID).
		Order("created_at, id").
		Find(&matches).Error
	return matches, err
}

// CountForPair is used by tests and diagnostics to assert uniqueness.
func (r *MatchRepository) CountForPair(ctx context.Context, a, b string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("pair_key = ?", db.PairKey(a, b)).
		Count(&count).Error
	return count, err
}
