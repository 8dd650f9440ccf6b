package audit

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	auditRepo "github.com/mrlokans/bookie/internal/database/audit"
	"github.com/mrlokans/bookie/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	// A file database, since async writes may run on another pooled connection.
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	repo := auditRepo.NewRepository(db)
	svc := NewService(repo)

	return svc, db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventFavoriteAdd,
		BookID:      "OL1W",
		Description: "Test event",
		Status:      entities.AuditStatusSuccess,
	}

	err := svc.Log(context.Background(), event)
	require.NoError(t, err)

	var saved entities.AuditEvent
	err = db.First(&saved, event.ID).Error
	require.NoError(t, err)
	assert.Equal(t, "OL1W", saved.BookID)
}

func TestService_LogFavoriteEvents(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogFavoriteAdded("OL1W", "Dune")
	svc.LogFavoriteRemoved("OL1W")
	svc.Wait()

	var added entities.AuditEvent
	require.NoError(t, db.Where("event_type = ?", entities.AuditEventFavoriteAdd).First(&added).Error)
	assert.Equal(t, "OL1W", added.BookID)
	assert.Equal(t, "Added to favorites: Dune", added.Description)
	assert.Equal(t, entities.AuditStatusSuccess, added.Status)

	var removed entities.AuditEvent
	require.NoError(t, db.Where("event_type = ?", entities.AuditEventFavoriteRemove).First(&removed).Error)
	assert.Equal(t, "OL1W", removed.BookID)

	history, total, err := svc.GetBookHistory(context.Background(), "OL1W", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, history, 2)
}

func TestService_LogCoverCleanup(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("successful run", func(t *testing.T) {
		svc.LogCoverCleanup(3, nil)
		svc.Wait()

		var event entities.AuditEvent
		err := db.Where("event_type = ? AND status = ?", entities.AuditEventCoverCleanup, entities.AuditStatusSuccess).First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, "Removed 3 cached covers", event.Description)
		assert.Contains(t, event.Metadata, `"removed":3`)
	})

	t.Run("failed run", func(t *testing.T) {
		svc.LogCoverCleanup(0, errors.New("permission denied"))
		svc.Wait()

		var event entities.AuditEvent
		err := db.Where("event_type = ? AND status = ?", entities.AuditEventCoverCleanup, entities.AuditStatusFailed).First(&event).Error
		require.NoError(t, err)
		assert.Contains(t, event.ErrorMsg, "permission denied")
	})
}

func TestService_GetEvents(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		svc.LogFavoriteAdded("OL1W", "Dune")
	}
	svc.LogCoverCleanup(1, nil)
	svc.Wait()

	events, total, err := svc.GetEvents(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, events, 4)

	events, total, err = svc.GetEvents(ctx, entities.AuditEventCoverCleanup, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, entities.AuditEventCoverCleanup, events[0].EventType)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Log(ctx, &entities.AuditEvent{
		EventType: entities.AuditEventFavoriteAdd,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}))
	require.NoError(t, svc.Log(ctx, &entities.AuditEvent{
		EventType: entities.AuditEventFavoriteAdd,
	}))

	deleted, err := svc.DeleteOldEvents(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly10!", truncate("exactly10!", 10))

	long := strings.Repeat("a", 20)
	result := truncate(long, 10)
	assert.Len(t, result, 10)
	assert.True(t, strings.HasSuffix(result, "..."))
}
