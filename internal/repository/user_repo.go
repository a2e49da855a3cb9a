package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/skilllink/internal/db"
	svcErr "github.com/oggyb/skilllink/internal/errors"
)

// UserRepository provides data access for user profiles and point totals.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// WithTx returns a copy bound to an open transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// Create inserts a new user. A taken email surfaces as ErrConflict, whether it
// is caught by the pre-check or by the unique index under a concurrent insert.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return svcErr.Conflict("Email already registered")
		}
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return svcErr.Conflict("Email already registered")
			}
			return err
		}
		return nil
	})
}

// FindByID returns gorm.ErrRecordNotFound when the user does not exist.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail looks the user up by the normalized form of email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).Where("email = ?", db.NormalizeEmail(email)).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns every user ordered by id.
func (r *UserRepository) List(ctx context.Context) ([]db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

// ListOthers returns every user except id, ordered by id so callers that
// pick "first best" get a deterministic answer.
func (r *UserRepository) ListOthers(ctx context.Context, id string) ([]db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).Where("id <> ?", id).Order("id").Find(&users).Error
	return users, err
}

// Update applies the given column values to an existing user.
func (r *UserRepository) Update(ctx context.Context, id string, values map[string]any) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u db.User
		if err := tx.Select("id").Where("id = ?", id).First(&u).Error; err != nil {
			return err
		}
		if len(values) == 0 {
			return nil
		}
		return tx.Model(&db.User{}).Where("id = ?", id).Updates(values).Error
	})
}

// LockForUpdate loads the users with the given ids holding a row lock until
// the surrounding transaction ends. Rows are locked in id order so two
// transactions locking the same pair cannot deadlock. Must run inside a
// transaction (see WithTx).
func (r *UserRepository) LockForUpdate(ctx context.Context, ids ...string) ([]db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Select("id", "email").
		Where("id IN ?", ids).
		Order("id").
		Find(&users).Error
	return users, err
}

// IncrementPoints adds delta to the user's running total.
//
// Behavior:
//   - Single UPDATE ... SET points = points + ?, so concurrent awards never
//     lose an increment.
//   - Returns gorm.ErrRecordNotFound when no row matched.
func (r *UserRepository) IncrementPoints(ctx context.Context, id string, delta int64) error {
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		UpdateColumn("points", gorm.Expr("points + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// WithPoints returns users holding points, best first, ties by id.
func (r *UserRepository) WithPoints(ctx context.Context, limit int) ([]db.User, error) {
	var users []db.User
	q := r.db.WithContext(ctx).
		Select("id", "username", "points").
		Where("points > 0").
		Order("points DESC, id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&users).Error
	return users, err
}

// FindByIDs loads users keyed by id.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]db.User, error) {
	out := make(map[string]db.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []db.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
