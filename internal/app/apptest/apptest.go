// Package apptest wires an AppContext over in-memory SQLite and miniredis.
package apptest

import (
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/skilllink/internal/app"
	"github.com/oggyb/skilllink/internal/auth"
	"github.com/oggyb/skilllink/internal/cache"
	"github.com/oggyb/skilllink/internal/config"
	"github.com/oggyb/skilllink/internal/db"
	"github.com/oggyb/skilllink/internal/db/dbtest"
	"github.com/oggyb/skilllink/internal/logger"
)

// New returns a ready AppContext and the miniredis behind its cache.
func New(t *testing.T) (*app.AppContext, *miniredis.Miniredis) {
	t.Helper()

	gdb := dbtest.Open(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	cfg.Auth.Secret = "test-secret"

	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Close() })

	return app.New(gdb, rc, logger.Discard(), auth.NewCredentials(cfg)), mr
}

// SeedUsers inserts n users with ids u1..un, emails u<i>@test.com and the
// password "secret1". interests[i] (when given) becomes user i+1's interests.
func SeedUsers(t *testing.T, appCtx *app.AppContext, n int, interests ...[]string) []db.User {
	t.Helper()

	hash, err := appCtx.Credentials.Hash("secret1")
	require.NoError(t, err)

	users := make([]db.User, 0, n)
	for i := 1; i <= n; i++ {
		u := db.User{
			ID:           fmt.Sprintf("u%d", i),
			Name:         fmt.Sprintf("User %d", i),
			Email:        fmt.Sprintf("u%d@test.com", i),
			Username:     fmt.Sprintf("user%d", i),
			PasswordHash: hash,
			Skills:       []string{},
			Interests:    []string{},
			Teaches:      []string{},
			WantsToLearn: []string{},
			Country:      "DE",
			City:         "Berlin",
		}
		if i-1 < len(interests) {
			u.Interests = interests[i-1]
		}
		users = append(users, u)
	}
	require.NoError(t, appCtx.DB.Create(&users).Error)
	return users
}

// Reload fetches a user straight from the DB.
func Reload(t *testing.T, gdb *gorm.DB, id string) db.User {
	t.Helper()
	var u db.User
	require.NoError(t, gdb.Where("id = ?", id).First(&u).Error)
	return u
}
