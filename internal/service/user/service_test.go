package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/skilllink/internal/app/apptest"
	"github.com/oggyb/skilllink/internal/db"
	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/service/gamification"
	"github.com/oggyb/skilllink/internal/service/user"
)

func alice() user.Registration {
	return user.Registration{
		Name:      "Alice",
		Email:     "alice@example.com",
		Username:  "alice",
		Password:  "secret1",
		Interests: []string{"go", "chess"},
		Country:   "DE",
		City:      "Berlin",
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	svc := user.NewService(appCtx)

	id, err := svc.Register(ctx, alice())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	again := alice()
	again.Email = "ALICE@example.com "
	_, err = svc.Register(ctx, again)
	assert.ErrorIs(t, err, svcErr.ErrConflict)

	u, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.Zero(t, u.Points)
	assert.NotNil(t, u.Skills)
}

func TestMarkupOnlyNamesAreRejected(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	svc := user.NewService(appCtx)

	bad := alice()
	bad.Name = "<b></b>"
	_, err := svc.Register(ctx, bad)
	assert.ErrorIs(t, err, svcErr.ErrValidation)

	bad = alice()
	bad.City = "<script>x</script>"
	_, err = svc.Register(ctx, bad)
	assert.ErrorIs(t, err, svcErr.ErrValidation)

	in := alice()
	in.Name = "Ann O'Neil & Co"
	id, err := svc.Register(ctx, in)
	require.NoError(t, err)

	empty := "<i></i>"
	err = svc.Update(ctx, id, user.ProfileUpdate{Name: &empty})
	assert.ErrorIs(t, err, svcErr.ErrValidation)

	u, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ann O'Neil & Co", u.Name)
}

func TestLoginIssuesTokenForEmail(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	svc := user.NewService(appCtx)
	_, err := svc.Register(ctx, alice())
	require.NoError(t, err)

	token, err := svc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	subject, err := appCtx.Credentials.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)

	_, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, svcErr.ErrUnauthorized)
	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, svcErr.ErrUnauthorized)
}

func TestUpdateProfileAllowList(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	apptest.SeedUsers(t, appCtx, 1)
	svc := user.NewService(appCtx)

	city := "Hamburg"
	skills := []string{"go", "sql"}
	require.NoError(t, svc.Update(ctx, "u1", user.ProfileUpdate{City: &city, Skills: &skills}))

	u := apptest.Reload(t, appCtx.DB, "u1")
	assert.Equal(t, "Hamburg", u.City)
	assert.Equal(t, []string{"go", "sql"}, []string(u.Skills))
	assert.Equal(t, "DE", u.Country, "unset fields are untouched")

	err := svc.Update(ctx, "ghost", user.ProfileUpdate{City: &city})
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

func TestRecommendHighestOverlap(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	apptest.SeedUsers(t, appCtx, 4,
		[]string{"x", "y"},
		[]string{"z"},      // overlap 0
		[]string{"x", "y"}, // overlap 2
		[]string{"y"},      // overlap 1
	)
	svc := user.NewService(appCtx)

	best, err := svc.Recommend(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, "u3", best.ID)
}

func TestRecommendTiesGoToSmallestID(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	apptest.SeedUsers(t, appCtx, 3,
		[]string{"x"},
		[]string{"x"},
		[]string{"x"},
	)
	svc := user.NewService(appCtx)

	best, err := svc.Recommend(ctx, "u3")
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, "u1", best.ID)
}

func TestRecommendNoneAndNotFound(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	apptest.SeedUsers(t, appCtx, 2, []string{"x"}, []string{"y"})
	svc := user.NewService(appCtx)

	best, err := svc.Recommend(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, best)

	_, err = svc.Recommend(ctx, "ghost")
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

func TestPrivateProfileIncludesHistory(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	apptest.SeedUsers(t, appCtx, 1)
	require.NoError(t, gamification.NewService(appCtx).Award(ctx, "u1", db.SourceReaction, 2))

	u := apptest.Reload(t, appCtx.DB, "u1")
	profile, err := user.NewService(appCtx).PrivateProfile(ctx, &u)
	require.NoError(t, err)
	assert.Equal(t, int64(2), profile.Points)
	require.Len(t, profile.PointHistory, 1)
	assert.Equal(t, db.SourceReaction, profile.PointHistory[0].Source)
}
