package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oggyb/skilllink/internal/db"
	"github.com/oggyb/skilllink/internal/db/dbtest"
)

func TestSeedTestDataIsRepeatable(t *testing.T) {
	gdb := dbtest.Open(t)

	require.NoError(t, db.SeedTestData(gdb))
	require.NoError(t, db.SeedTestData(gdb))

	var users []db.User
	require.NoError(t, gdb.Order("id").Find(&users).Error)
	require.Len(t, users, 6)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte(db.SeedPassword)))

	var matches int64
	require.NoError(t, gdb.Model(&db.Match{}).Count(&matches).Error)
	assert.Equal(t, int64(3), matches)

	var swipes int64
	require.NoError(t, gdb.Model(&db.Swipe{}).Count(&swipes).Error)
	assert.Equal(t, int64(9), swipes)

	var posts int64
	require.NoError(t, gdb.Model(&db.ForumPost{}).Count(&posts).Error)
	assert.Equal(t, int64(1), posts)
}

func TestPairKeyIsUnordered(t *testing.T) {
	assert.Equal(t, db.PairKey("a", "b"), db.PairKey("b", "a"))
	assert.Equal(t, "a|b", db.PairKey("b", "a"))
}
