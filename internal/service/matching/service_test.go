package matching_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/skilllink/internal/app/apptest"
	"github.com/oggyb/skilllink/internal/db"
	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/repository"
	"github.com/oggyb/skilllink/internal/service/matching"
)

func TestSwipeReciprocalRightCreatesOneMatch(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	apptest.SeedUsers(t, appCtx, 2)
	svc := matching.NewService(appCtx)

	res, err := svc.Swipe(ctx, "u1", "u2", db.DirectionRight)
	require.NoError(t, err)
	assert.False(t, res.Matched)

	res, err = svc.Swipe(ctx, "u2", "u1", db.DirectionRight)
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.True(t, res.Created)

	// repeating the swipe reports the match without duplicating it
	res, err = svc.Swipe(ctx, "u2", "u1", db.DirectionRight)
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.False(t, res.Created)

	n, err := repository.NewMatchRepository(appCtx.DB).CountForPair(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var swipes int64
	require.NoError(t, appCtx.DB.Model(&db.Swipe{}).Count(&swipes).Error)
	assert.Equal(t, int64(2), swipes)
}

func TestSwipeConcurrentReciprocalSwipes(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	const pairs = 10
	apptest.SeedUsers(t, appCtx, pairs*2)
	svc := matching.NewService(appCtx)

	var wg sync.WaitGroup
	errs := make(chan error, pairs*2)
	for p := 0; p < pairs; p++ {
		a := fmt.Sprintf("u%d", 2*p+1)
		b := fmt.Sprintf("u%d", 2*p+2)
		for _, dir := range [][2]string{{a, b}, {b, a}} {
			wg.Add(1)
			go func(swiper, target string) {
				defer wg.Done()
				_, err := svc.Swipe(ctx, swiper, target, db.DirectionRight)
				errs <- err
			}(dir[0], dir[1])
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	matches := repository.NewMatchRepository(appCtx.DB)
	for p := 0; p < pairs; p++ {
		n, err := matches.CountForPair(ctx, fmt.Sprintf("u%d", 2*p+1), fmt.Sprintf("u%d", 2*p+2))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n, "pair %d", p)
	}
}

func TestSwipeAfterMatchAlreadyCommitted(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	apptest.SeedUsers(t, appCtx, 2)
	svc := matching.NewService(appCtx)

	// state left behind when the other side's transaction won the race
	require.NoError(t, repository.NewSwipeRepository(appCtx.DB).Upsert(ctx, "u2", "u1", db.DirectionRight))
	_, err := repository.NewMatchRepository(appCtx.DB).CreateIfAbsent(ctx, "u2", "u1")
	require.NoError(t, err)

	res, err := svc.Swipe(ctx, "u1", "u2", db.DirectionRight)
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.False(t, res.Created)

	n, err := repository.NewMatchRepository(appCtx.DB).CountForPair(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSwipeLeftNeverMatches(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	apptest.SeedUsers(t, appCtx, 2)
	svc := matching.NewService(appCtx)

	_, err := svc.Swipe(ctx, "u1", "u2", db.DirectionRight)
	require.NoError(t, err)
	res, err := svc.Swipe(ctx, "u2", "u1", db.DirectionLeft)
	require.NoError(t, err)
	assert.False(t, res.Matched)

	matches, err := svc.Matches(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSwipeValidation(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	apptest.SeedUsers(t, appCtx, 1)
	svc := matching.NewService(appCtx)

	_, err := svc.Swipe(ctx, "u1", "u1", db.DirectionRight)
	assert.ErrorIs(t, err, svcErr.ErrValidation)

	_, err = svc.Swipe(ctx, "u1", "u2", "up")
	assert.ErrorIs(t, err, svcErr.ErrValidation)

	_, err = svc.Swipe(ctx, "u1", "ghost", db.DirectionRight)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	var swipes int64
	require.NoError(t, appCtx.DB.Model(&db.Swipe{}).Count(&swipes).Error)
	assert.Zero(t, swipes)
}

func TestMatchesListsBothSides(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	apptest.SeedUsers(t, appCtx, 3)
	svc := matching.NewService(appCtx)

	for _, s := range [][2]string{{"u1", "u2"}, {"u2", "u1"}, {"u3", "u1"}, {"u1", "u3"}} {
		_, err := svc.Swipe(ctx, s[0], s[1], db.DirectionRight)
		require.NoError(t, err)
	}

	matches, err := svc.Matches(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	matches, err = svc.Matches(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.ElementsMatch(t, []string{"u1", "u2"}, []string{matches[0].User1, matches[0].User2})
}

func TestCountRightSwipesReceivedCacheFirst(t *testing.T) {
	ctx := context.Background()
	appCtx, mr := apptest.New(t)
	apptest.SeedUsers(t, appCtx, 3)
	svc := matching.NewService(appCtx)

	_, err := svc.Swipe(ctx, "u1", "u3", db.DirectionRight)
	require.NoError(t, err)
	_, err = svc.Swipe(ctx, "u2", "u3", db.DirectionRight)
	require.NoError(t, err)

	n, err := svc.CountRightSwipesReceived(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	cached, err := mr.Get("swipes:right:count:u3")
	require.NoError(t, err)
	assert.Equal(t, "2", cached)

	// a new swipe drops the cached value
	_, err = svc.Swipe(ctx, "u2", "u3", db.DirectionLeft)
	require.NoError(t, err)
	assert.False(t, mr.Exists("swipes:right:count:u3"))

	n, err = svc.CountRightSwipesReceived(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = svc.CountRightSwipesReceived(ctx, "ghost")
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}
