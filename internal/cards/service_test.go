package cards

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cardhub/internal/liga"
	"cardhub/pkg/database"
	"cardhub/pkg/models"
	"cardhub/pkg/repository"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(database.Config{Path: ":memory:"})
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

// fakeFetcher serves canned scrape results and counts calls. Errors in
// the queues are consumed one per call before the canned data applies.
type fakeFetcher struct {
	card    liga.CardData
	edition liga.EditionData

	cardErrs    []error
	editionErrs []error

	cardCalls    int
	editionCalls int
}

func (f *fakeFetcher) FetchCard(ctx context.Context, ref liga.CardRef) (liga.CardData, error) {
	f.cardCalls++
	if len(f.cardErrs) > 0 {
		err := f.cardErrs[0]
		f.cardErrs = f.cardErrs[1:]
		return liga.CardData{}, err
	}
	return f.card, nil
}

func (f *fakeFetcher) FetchEdition(ctx context.Context, ref liga.CardRef) (liga.EditionData, error) {
	f.editionCalls++
	if len(f.editionErrs) > 0 {
		err := f.editionErrs[0]
		f.editionErrs = f.editionErrs[1:]
		return liga.EditionData{}, err
	}
	return f.edition, nil
}

func pikachuFetcher() *fakeFetcher {
	return &fakeFetcher{
		card:    liga.CardData{CardID: "025", SetID: "4", EditionCode: "base1", Name: "Pikachu", Rarity: "Common"},
		edition: liga.EditionData{Code: "base1", Name: "Base Set", Year: "1999"},
	}
}

func newTestService(db *sql.DB, f *fakeFetcher) *Service {
	return NewService(db, func() Fetcher { return f }, zap.NewNop())
}

func TestCreateFetchesAndPersistsCardWithEdition(t *testing.T) {
	db := testDB(t)
	f := pikachuFetcher()
	svc := newTestService(db, f)

	detail, created, err := svc.Create(context.Background(), CreateInput{CardID: "025", SetID: "4", EditionSlug: "base1"})
	require.NoError(t, err)

	assert.True(t, created)
	assert.NotZero(t, detail.ID)
	assert.Equal(t, "Pikachu", detail.Name)
	assert.Equal(t, "Common", detail.Rarity)
	assert.Equal(t, "base1", detail.EditionCode)
	assert.Equal(t, "Base Set", detail.EditionName)
	assert.Equal(t, 1, f.cardCalls)
	assert.Equal(t, 1, f.editionCalls)

	edition, err := repository.NewEditions(db).GetByCode(context.Background(), "base1")
	require.NoError(t, err)
	require.NotNil(t, edition)
	assert.Equal(t, "1999", edition.Year)
}

func TestCreateReplayIsIdempotentAndSkipsTheFetcher(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	f := pikachuFetcher()
	svc := newTestService(db, f)

	first, created, err := svc.Create(ctx, CreateInput{CardID: "025", SetID: "4", EditionSlug: "base1"})
	require.NoError(t, err)
	require.True(t, created)

	replay := pikachuFetcher()
	second, created, err := newTestService(db, replay).Create(ctx, CreateInput{CardID: "025", SetID: "4", EditionSlug: "base1"})
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Name, second.Name)
	assert.Zero(t, replay.cardCalls)
	assert.Zero(t, replay.editionCalls)
}

func TestCreateReusesExistingEdition(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	f1 := pikachuFetcher()
	_, _, err := newTestService(db, f1).Create(ctx, CreateInput{CardID: "025", SetID: "4", EditionSlug: "base1"})
	require.NoError(t, err)

	f2 := pikachuFetcher()
	f2.card = liga.CardData{CardID: "004", SetID: "102", EditionCode: "base1", Name: "Charmander", Rarity: "Common"}
	detail, created, err := newTestService(db, f2).Create(ctx, CreateInput{CardID: "004", SetID: "102", EditionSlug: "base1"})
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, "Charmander", detail.Name)
	assert.Equal(t, 1, f2.cardCalls)
	assert.Zero(t, f2.editionCalls, "known edition must not be re-scraped")

	_, total, err := repository.NewEditions(db).List(ctx, nil, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestCreateFetchFailureLeavesNoRows(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	f := pikachuFetcher()
	f.cardErrs = []error{&liga.FetchError{URL: "http://example", Err: errors.New("status 503")}}
	_, _, err := newTestService(db, f).Create(ctx, CreateInput{CardID: "025", SetID: "4", EditionSlug: "base1"})

	var fetchErr *liga.FetchError
	require.ErrorAs(t, err, &fetchErr)

	// the edition save that preceded the failed card fetch rolled back
	edition, err := repository.NewEditions(db).GetByCode(ctx, "base1")
	require.NoError(t, err)
	assert.Nil(t, edition)

	_, total, err := repository.NewCards(db).ListDetailed(ctx, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreateRetriesOnceAfterLosingInsertRace(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	f := pikachuFetcher()
	f.editionErrs = []error{sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}}

	detail, created, err := newTestService(db, f).Create(ctx, CreateInput{CardID: "025", SetID: "4", EditionSlug: "base1"})
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, "Pikachu", detail.Name)
	assert.Equal(t, 2, f.editionCalls, "one failed attempt plus the retry")
}

func TestCreateDoesNotRetryOtherFailures(t *testing.T) {
	db := testDB(t)

	f := pikachuFetcher()
	f.editionErrs = []error{&liga.FetchError{URL: "http://example", Err: errors.New("status 502")}}

	_, _, err := newTestService(db, f).Create(context.Background(), CreateInput{CardID: "025", SetID: "4", EditionSlug: "base1"})
	require.Error(t, err)
	assert.Equal(t, 1, f.editionCalls)
}

func TestGetMissingCard(t *testing.T) {
	db := testDB(t)

	_, err := newTestService(db, pikachuFetcher()).Get(context.Background(), 777)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdatePatchesDescriptiveFieldsOnly(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	svc := newTestService(db, pikachuFetcher())

	detail, _, err := svc.Create(ctx, CreateInput{CardID: "025", SetID: "4", EditionSlug: "base1"})
	require.NoError(t, err)

	rarity := "Rare Holo"
	updated, err := svc.Update(ctx, detail.ID, models.CardUpdate{Rarity: &rarity})
	require.NoError(t, err)

	assert.Equal(t, "Pikachu", updated.Name, "unset field stays untouched")
	assert.Equal(t, "Rare Holo", updated.Rarity)
	assert.Equal(t, "025", updated.CardID)
	assert.Equal(t, "base1", updated.EditionCode)
}

func TestUpdateMissingCard(t *testing.T) {
	db := testDB(t)

	name := "x"
	_, err := newTestService(db, pikachuFetcher()).Update(context.Background(), 777, models.CardUpdate{Name: &name})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteRemovesCard(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	svc := newTestService(db, pikachuFetcher())

	detail, _, err := svc.Create(ctx, CreateInput{CardID: "025", SetID: "4", EditionSlug: "base1"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, detail.ID))

	_, err = svc.Get(ctx, detail.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, detail.ID), repository.ErrNotFound)
}

func TestListPages(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for i, name := range []string{"Pikachu", "Raichu", "Bulbasaur"} {
		f := pikachuFetcher()
		f.card = liga.CardData{CardID: string(rune('1' + i)), SetID: "4", EditionCode: "base1", Name: name, Rarity: "Common"}
		_, _, err := newTestService(db, f).Create(ctx, CreateInput{CardID: f.card.CardID, SetID: "4", EditionSlug: "base1"})
		require.NoError(t, err)
	}

	svc := newTestService(db, pikachuFetcher())
	items, total, err := svc.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, items, 2)

	items, total, err = svc.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, items, 1)
}
