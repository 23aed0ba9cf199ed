package sqlstore

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/profilehub/internal/models"
	"github.com/vytor/profilehub/internal/testutil"
)

// staleLookup reports an empty store for the first n reads, as a writer does
// when another transaction inserts the row after its read.
func staleLookup(r *profileRepository, n int, calls *int) func(context.Context, *sql.Tx) (int64, error) {
	return func(ctx context.Context, tx *sql.Tx) (int64, error) {
		*calls++
		if *calls <= n {
			return 0, sql.ErrNoRows
		}
		return r.currentID(ctx, tx)
	}
}

func TestUpsert_LostInsertRaceBecomesUpdate(t *testing.T) {
	database := testutil.NewTestDB(t)
	defer testutil.MustClose(t, database)
	repo := NewProfileRepository(database).(*profileRepository)
	ctx := context.Background()

	winner, err := repo.Upsert(ctx, models.Profile{FullName: "Writer A"})
	require.NoError(t, err)
	require.Equal(t, models.UpsertCreated, winner.Mode)

	calls := 0
	repo.lookupID = staleLookup(repo, 1, &calls)

	res, err := repo.Upsert(ctx, models.Profile{FullName: "Writer B", State: "PE"})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "the losing insert is retried exactly once")
	assert.Equal(t, models.UpsertUpdated, res.Mode)
	assert.Equal(t, winner.ID, res.ID)

	summaries, err := repo.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, winner.ID, summaries[0].ID)
	assert.Equal(t, "Writer B", summaries[0].FullName)

	p, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "PE", p.State)
}

func TestUpsert_SecondUniqueViolationIsReturned(t *testing.T) {
	database := testutil.NewTestDB(t)
	defer testutil.MustClose(t, database)
	repo := NewProfileRepository(database).(*profileRepository)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, models.Profile{FullName: "Writer A"})
	require.NoError(t, err)

	calls := 0
	repo.lookupID = staleLookup(repo, 2, &calls)

	_, err = repo.Upsert(ctx, models.Profile{FullName: "Writer B"})
	require.Error(t, err)
	assert.True(t, database.Dialect.IsUniqueViolation(err))
	assert.Equal(t, 2, calls, "no retry beyond the first")

	p, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Writer A", p.FullName)
}
