package favorites

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookie/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "favorites.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.FavoriteBook{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db, NewRepository(db)
}

func testBook(id, title string) *entities.FavoriteBook {
	description := "About " + title
	return &entities.FavoriteBook{
		ID:          id,
		Title:       title,
		Description: &description,
		Authors:     []string{"Test Author"},
		Languages:   []string{"eng"},
		NumEditions: 1,
	}
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "subscription closed unexpectedly")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		var zero T
		return zero
	}
}

func TestRepository_UpsertAndGetByID(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testBook("OL1W", "Dune")))

	got, err := repo.GetByID(ctx, "OL1W")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, []string{"Test Author"}, got.Authors)
	assert.Equal(t, []string{"eng"}, got.Languages)
	require.NotNil(t, got.Description)
	assert.Equal(t, "About Dune", *got.Description)
}

func TestRepository_UpsertReplaces(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testBook("OL1W", "Dune")))
	require.NoError(t, repo.Upsert(ctx, testBook("OL1W", "Dune Messiah")))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := repo.GetByID(ctx, "OL1W")
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", got.Title)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	_, repo := setupTestDB(t)

	got, err := repo.GetByID(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_DeleteByID(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testBook("OL1W", "Dune")))
	require.NoError(t, repo.Upsert(ctx, testBook("OL2W", "Emma")))

	require.NoError(t, repo.DeleteByID(ctx, "OL1W"))
	require.NoError(t, repo.DeleteByID(ctx, "never-saved"))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "OL2W", all[0].ID)
}

func TestRepository_GetAll_Empty(t *testing.T) {
	_, repo := setupTestDB(t)

	all, err := repo.GetAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestRepository_Subscribe(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := repo.Subscribe(ctx)
	assert.Empty(t, receive(t, sub))

	require.NoError(t, repo.Upsert(ctx, testBook("OL1W", "Dune")))
	snapshot := receive(t, sub)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "OL1W", snapshot[0].ID)

	require.NoError(t, repo.DeleteByID(ctx, "OL1W"))
	assert.Empty(t, receive(t, sub))
}

func TestRepository_Subscribe_CoalescesWrites(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := repo.Subscribe(ctx)
	receive(t, sub)

	require.NoError(t, repo.Upsert(ctx, testBook("OL1W", "Dune")))
	require.NoError(t, repo.Upsert(ctx, testBook("OL2W", "Emma")))
	require.NoError(t, repo.Upsert(ctx, testBook("OL3W", "Ulysses")))

	assert.Len(t, receive(t, sub), 3)
}

func TestRepository_Subscribe_NextSnapshotHasLatestWrite(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := repo.Subscribe(ctx)
	assert.Empty(t, receive(t, sub))

	// Let the subscription pick up the first write before the second one lands
	require.NoError(t, repo.Upsert(ctx, testBook("OL1W", "Dune")))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, repo.Upsert(ctx, testBook("OL2W", "Emma")))
	time.Sleep(50 * time.Millisecond)

	snapshot := receive(t, sub)
	require.Len(t, snapshot, 2)
	assert.Equal(t, "OL2W", snapshot[1].ID)
}

func TestSnapshots_MapsInSameStage(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	counts := Snapshots(ctx, repo, func(books []entities.FavoriteBook) int { return len(books) })
	assert.Equal(t, 0, receive(t, counts))

	require.NoError(t, repo.Upsert(ctx, testBook("OL1W", "Dune")))
	require.NoError(t, repo.Upsert(ctx, testBook("OL2W", "Emma")))

	assert.Equal(t, 2, receive(t, counts))
}

func TestRepository_Subscribe_ClosesOnCancel(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())

	sub := repo.Subscribe(ctx)
	receive(t, sub)
	cancel()

	select {
	case _, ok := <-sub:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription was not closed")
	}

	assert.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return len(repo.subscribers) == 0
	}, time.Second, 10*time.Millisecond)
}
