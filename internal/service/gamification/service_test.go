package gamification_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/skilllink/internal/app/apptest"
	"github.com/oggyb/skilllink/internal/db"
	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/service/gamification"
)

func TestAwardSumsExactly(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	apptest.SeedUsers(t, appCtx, 1)
	svc := gamification.NewService(appCtx)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				errs <- svc.Award(ctx, "u1", db.SourceReaction, gamification.ReactionPoints)
			} else {
				errs <- svc.Award(ctx, "u1", db.SourceForumResponse, gamification.ForumResponsePoints)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	u := apptest.Reload(t, appCtx.DB, "u1")
	assert.Equal(t, int64(10*2+10*5), u.Points)

	history, err := svc.History(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, history, n)

	var sum int64
	for _, e := range history {
		sum += e.Points
	}
	assert.Equal(t, u.Points, sum)
}

func TestAwardUnknownUserWritesNothing(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	svc := gamification.NewService(appCtx)

	err := svc.Award(ctx, "ghost", db.SourceReaction, gamification.ReactionPoints)
	require.Error(t, err)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	var count int64
	require.NoError(t, appCtx.DB.Model(&db.PointEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAwardRejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	apptest.SeedUsers(t, appCtx, 1)
	svc := gamification.NewService(appCtx)

	assert.ErrorIs(t, svc.Award(ctx, "u1", db.SourceReaction, 0), svcErr.ErrValidation)
	assert.ErrorIs(t, svc.Award(ctx, "u1", "", 2), svcErr.ErrValidation)
	assert.Equal(t, int64(0), apptest.Reload(t, appCtx.DB, "u1").Points)
}

func TestLeaderboardRebuildsThenServesFromCache(t *testing.T) {
	ctx := context.Background()
	appCtx, mr := apptest.New(t)
	apptest.SeedUsers(t, appCtx, 3)
	svc := gamification.NewService(appCtx)

	require.NoError(t, svc.Award(ctx, "u2", db.SourceForumResponse, 5))
	require.NoError(t, svc.Award(ctx, "u3", db.SourceForumResponse, 5))
	require.NoError(t, svc.Award(ctx, "u1", db.SourceReaction, 2))

	// cold cache: ranked from the DB
	standings, err := svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, standings, 3)
	assert.Equal(t, []string{"u2", "u3", "u1"}, ids(standings))
	assert.True(t, mr.Exists("leaderboard:points"))

	// warm cache picks up new awards
	require.NoError(t, svc.Award(ctx, "u1", db.SourceForumResponse, 5))
	standings, err = svc.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, standings, 2)
	assert.Equal(t, "u1", standings[0].UserID)
	assert.Equal(t, int64(7), standings[0].Points)
	assert.Equal(t, "user1", standings[0].Username)
}

func TestLeaderboardTiesAgreeAcrossCacheStates(t *testing.T) {
	ctx := context.Background()
	appCtx, mr := apptest.New(t)
	apptest.SeedUsers(t, appCtx, 3)
	svc := gamification.NewService(appCtx)
	for _, id := range []string{"u3", "u2", "u1"} {
		require.NoError(t, svc.Award(ctx, id, db.SourceReaction, 2))
	}

	cold, err := svc.Leaderboard(ctx, 1)
	require.NoError(t, err)
	require.True(t, mr.Exists("leaderboard:points"))

	warm, err := svc.Leaderboard(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"u1"}, ids(cold))
	assert.Equal(t, ids(cold), ids(warm))

	warm, err = svc.Leaderboard(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, ids(warm))
}

func TestLeaderboardFallsBackWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	appCtx, mr := apptest.New(t)
	apptest.SeedUsers(t, appCtx, 2)
	svc := gamification.NewService(appCtx)
	require.NoError(t, svc.Award(ctx, "u2", db.SourceReaction, 2))

	mr.Close()

	standings, err := svc.Leaderboard(ctx, 5)
	require.NoError(t, err)
	require.Len(t, standings, 1)
	assert.Equal(t, "u2", standings[0].UserID)
}

func ids(standings []gamification.Standing) []string {
	out := make([]string, 0, len(standings))
	for _, s := range standings {
		out = append(out, s.UserID)
	}
	return out
}
