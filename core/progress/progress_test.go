package progress_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/jifunze/core/content"
	"github.com/trezcool/jifunze/core/progress"
	inmemdb "github.com/trezcool/jifunze/storage/database/inmem"
	testutil "github.com/trezcool/jifunze/tests"
)

func setup(t *testing.T) (*progress.Service, content.Repository, *inmemdb.DB) {
	db := inmemdb.NewDB()
	contentRepo := inmemdb.NewContentRepository(db)
	svc := progress.NewService(inmemdb.NewProgressRepository(db), contentRepo)
	return svc, contentRepo, db
}

func TestService_IsUnlocked(t *testing.T) {
	svc, contentRepo, db := setup(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, inmemdb.NewUserRepository(db), "User", "user01", "user@test.cd", "", false, true)

	ch1 := testutil.CreateChapter(t, contentRepo, "One", 1)
	ch2 := testutil.CreateChapter(t, contentRepo, "Two", 2)
	ch3 := testutil.CreateChapter(t, contentRepo, "Three", 3)

	// order 1 is always unlocked
	ok, err := svc.IsUnlocked(ctx, usr.ID, ch1)
	require.NoError(t, err)
	assert.True(t, ok)

	// later chapters start locked
	ok, err = svc.IsUnlocked(ctx, usr.ID, ch2)
	require.NoError(t, err)
	assert.False(t, ok)
	require.Equal(t, progress.ErrChapterLocked, errors.Cause(svc.EnsureUnlocked(ctx, usr.ID, ch2)))

	// completing the previous order unlocks the next, and only the next
	created, err := svc.MarkCompleted(ctx, usr.ID, ch1.ID)
	require.NoError(t, err)
	assert.True(t, created)

	ok, err = svc.IsUnlocked(ctx, usr.ID, ch2)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.IsUnlocked(ctx, usr.ID, ch3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_IsUnlocked_orderGaps(t *testing.T) {
	svc, contentRepo, db := setup(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, inmemdb.NewUserRepository(db), "User", "user01", "user@test.cd", "", false, true)

	ch1 := testutil.CreateChapter(t, contentRepo, "One", 1)
	ch2 := testutil.CreateChapter(t, contentRepo, "Two", 2)
	ch3 := testutil.CreateChapter(t, contentRepo, "Three", 3)
	ch4 := testutil.CreateChapter(t, contentRepo, "Four", 4)
	ch6 := testutil.CreateChapter(t, contentRepo, "Six", 6) // gap: no order 5

	for _, ch := range []content.Chapter{ch1, ch2, ch3} {
		_, err := svc.MarkCompleted(ctx, usr.ID, ch.ID)
		require.NoError(t, err)
	}

	// adjacency only: 4 unlocks, 6 stays locked behind the missing order 5
	ok, err := svc.IsUnlocked(ctx, usr.ID, ch4)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.IsUnlocked(ctx, usr.ID, ch6)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_MarkCompleted_idempotent(t *testing.T) {
	svc, contentRepo, db := setup(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, inmemdb.NewUserRepository(db), "User", "user01", "user@test.cd", "", false, true)
	ch1 := testutil.CreateChapter(t, contentRepo, "One", 1)

	created, err := svc.MarkCompleted(ctx, usr.ID, ch1.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.MarkCompleted(ctx, usr.ID, ch1.ID)
	require.NoError(t, err)
	assert.False(t, created)

	completions, err := svc.UserCompletions(ctx, usr.ID)
	require.NoError(t, err)
	assert.Len(t, completions, 1)
}

func TestService_ChapterStatuses(t *testing.T) {
	svc, contentRepo, db := setup(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, inmemdb.NewUserRepository(db), "User", "user01", "user@test.cd", "", false, true)

	ch1 := testutil.CreateChapter(t, contentRepo, "One", 1)
	testutil.CreateChapter(t, contentRepo, "Two", 2)
	testutil.CreateChapter(t, contentRepo, "Three", 3)

	_, err := svc.MarkCompleted(ctx, usr.ID, ch1.ID)
	require.NoError(t, err)

	statuses, err := svc.ChapterStatuses(ctx, usr.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 3)

	assert.True(t, statuses[0].IsUnlocked)
	assert.True(t, statuses[0].IsCompleted)
	assert.True(t, statuses[1].IsUnlocked)
	assert.False(t, statuses[1].IsCompleted)
	assert.False(t, statuses[2].IsUnlocked)
	assert.False(t, statuses[2].IsCompleted)
}
