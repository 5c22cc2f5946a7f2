package service_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cytutor/backend/internal/model"
	"github.com/cytutor/backend/internal/service"
	"github.com/cytutor/backend/internal/testutil"
)

func seedChallenges(store *testutil.MemoryStore) (web, crypto, hidden int64) {
	web = store.AddChallenge(model.Challenge{Name: "SQLi 101", Category: "web", Difficulty: "easy", Points: 100, IsActive: true}, "FLAG{union_select}")
	crypto = store.AddChallenge(model.Challenge{Name: "Caesar", Category: "crypto", Difficulty: "easy", Points: 50, IsActive: true}, "flag{rot13}")
	hidden = store.AddChallenge(model.Challenge{Name: "Retired", Category: "web", Difficulty: "hard", Points: 500, IsActive: false}, "flag{old}")
	return web, crypto, hidden
}

func TestChallengeList(t *testing.T) {
	store := testutil.NewMemoryStore()
	web, crypto, _ := seedChallenges(store)
	svc := service.NewChallengeService(store, quietLogger())
	ctx := context.Background()

	res, err := svc.List(ctx, 1, model.ListChallengesQuery{})
	require.NoError(t, err)
	require.Len(t, res.Challenges, 2)
	assert.Equal(t, crypto, res.Challenges[0].ID, "newest first")
	assert.Equal(t, model.Pagination{CurrentPage: 1, TotalPages: 1, TotalCount: 2, Limit: 20}, res.Pagination)

	res, err = svc.List(ctx, 1, model.ListChallengesQuery{Category: "web", Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, res.Challenges, 1)
	assert.Equal(t, web, res.Challenges[0].ID)

	res, err = svc.List(ctx, 1, model.ListChallengesQuery{Page: 2, Limit: 1})
	require.NoError(t, err)
	require.Len(t, res.Challenges, 1)
	assert.Equal(t, web, res.Challenges[0].ID)
	assert.Equal(t, 2, res.Pagination.TotalPages)

	res, err = svc.List(ctx, 1, model.ListChallengesQuery{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, res.Challenges)
	assert.Empty(t, res.Challenges)

	_, err = svc.List(ctx, 1, model.ListChallengesQuery{Page: 1, Limit: 101})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = svc.List(ctx, 1, model.ListChallengesQuery{Page: -1, Limit: 5})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = svc.List(ctx, 1, model.ListChallengesQuery{Page: math.MaxInt, Limit: 100})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestChallengeSubmit(t *testing.T) {
	store := testutil.NewMemoryStore()
	web, _, hidden := seedChallenges(store)
	svc := service.NewChallengeService(store, quietLogger())
	ctx := context.Background()

	_, err := svc.Submit(ctx, 1, web, "   ")
	assert.ErrorIs(t, err, service.ErrMissingFlag)

	_, err = svc.Submit(ctx, 1, 999, "x")
	assert.ErrorIs(t, err, service.ErrChallengeNotFound)

	_, err = svc.Submit(ctx, 1, hidden, "flag{old}")
	assert.ErrorIs(t, err, service.ErrChallengeNotFound)

	_, err = svc.Submit(ctx, 1, web, "flag{wrong}")
	assert.ErrorIs(t, err, service.ErrIncorrectFlag)

	res, err := svc.Submit(ctx, 1, web, "  flag{UNION_SELECT} ")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, int32(100), res.Points)

	_, err = svc.Submit(ctx, 1, web, "FLAG{union_select}")
	assert.ErrorIs(t, err, service.ErrAlreadySolved)

	detail, err := svc.Get(ctx, 1, web)
	require.NoError(t, err)
	assert.True(t, detail.Solved)
	require.NotNil(t, detail.SolvedAt)

	detail, err = svc.Get(ctx, 2, web)
	require.NoError(t, err)
	assert.False(t, detail.Solved)
}

func TestChallengeProgress(t *testing.T) {
	store := testutil.NewMemoryStore()
	web, crypto, _ := seedChallenges(store)
	store.AddChallenge(model.Challenge{Name: "XSS", Category: "web", Difficulty: "medium", Points: 200, IsActive: true}, "flag{alert}")
	svc := service.NewChallengeService(store, quietLogger())
	ctx := context.Background()

	_, err := svc.Submit(ctx, 1, web, "flag{union_select}")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, 1, crypto, "flag{rot13}")
	require.NoError(t, err)

	progress, err := svc.Progress(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.OverallProgress{TotalSolved: 2, TotalPoints: 150, CategoriesCompleted: 2}, progress.Overall)
	require.Len(t, progress.Categories, 2)
	assert.Equal(t, model.CategoryProgress{Category: "crypto", TotalChallenges: 1, SolvedChallenges: 1, PointsEarned: 50, CompletionRate: 100}, progress.Categories[0])
	assert.Equal(t, model.CategoryProgress{Category: "web", TotalChallenges: 2, SolvedChallenges: 1, PointsEarned: 100, CompletionRate: 50}, progress.Categories[1])
	assert.Len(t, progress.RecentSolves, 2)

	empty, err := svc.Progress(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, empty.Overall.TotalSolved)
	assert.NotNil(t, empty.RecentSolves)
}

func TestChallengeCreateAndUpdate(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := service.NewChallengeService(store, quietLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, model.CreateChallengeRequest{Name: "x", Category: "web"})
	assert.ErrorIs(t, err, service.ErrMissingFields)

	created, err := svc.Create(ctx, model.CreateChallengeRequest{
		Name: "Buffer", Category: "pwn", Difficulty: "hard", Description: "smash it", Flag: "flag{bof}",
	})
	require.NoError(t, err)
	assert.Equal(t, int32(100), created.Points)
	assert.True(t, created.IsActive)

	points := int32(300)
	inactive := false
	updated, err := svc.Update(ctx, created.ID, model.UpdateChallengeRequest{Points: &points, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, int32(300), updated.Points)
	assert.Equal(t, "Buffer", updated.Name)
	assert.False(t, updated.IsActive)

	_, err = svc.Get(ctx, 1, created.ID)
	assert.ErrorIs(t, err, service.ErrChallengeNotFound)

	_, err = svc.Update(ctx, 999, model.UpdateChallengeRequest{Points: &points})
	assert.ErrorIs(t, err, service.ErrChallengeNotFound)

	blank := " "
	_, err = svc.Update(ctx, created.ID, model.UpdateChallengeRequest{Flag: &blank})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}
