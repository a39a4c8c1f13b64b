package audit

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookcatalog/internal/database"
	auditrepo "github.com/mrlokans/bookcatalog/internal/database/audit"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *auditrepo.Repository) {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := auditrepo.NewRepository(db.DB)
	return NewService(repo), repo
}

func TestService_LogAuth(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	svc.LogAuth(1, "login", "alice", "127.0.0.1", "Mozilla/5.0", true)
	svc.LogAuth(0, "login", "mallory", "127.0.0.1", "curl", false)
	svc.Wait()

	events, total, err := svc.GetEvents(ctx, 0, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	byStatus := map[entities.AuditStatus]entities.AuditEvent{}
	for _, e := range events {
		byStatus[e.Status] = e
	}
	assert.Equal(t, "alice", byStatus[entities.AuditStatusSuccess].EntityKey)
	assert.Equal(t, entities.AuditEventAuth, byStatus[entities.AuditStatusFailed].EventType)
	assert.Equal(t, "mallory", byStatus[entities.AuditStatusFailed].EntityKey)
}

func TestService_LogBookAndComment(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	svc.LogBook(1, "book_add", "Dune", "Added book Dune", nil)
	svc.LogBook(1, "book_update", "Emma", "Updated book Emma", errors.New("not found"))
	svc.LogComment(1, "Dune", nil)
	svc.Wait()

	events, total, err := svc.GetEvents(ctx, 1, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	actions := map[string]entities.AuditEvent{}
	for _, e := range events {
		actions[e.Action] = e
	}
	assert.Equal(t, entities.AuditStatusSuccess, actions["book_add"].Status)
	assert.Equal(t, entities.AuditStatusFailed, actions["book_update"].Status)
	assert.Contains(t, actions["book_update"].Description, "not found")
	assert.Equal(t, entities.AuditEventComment, actions["comment_add"].EventType)
	assert.Equal(t, "Dune", actions["comment_add"].EntityKey)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{Action: "old", CreatedAt: time.Now().UTC().Add(-48 * time.Hour)}))
	require.NoError(t, svc.Log(ctx, &entities.AuditEvent{Action: "new"}))

	deleted, err := svc.DeleteOldEvents(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("x", 20)
	assert.Equal(t, "xxxxxxx...", truncate(long, 10))
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	got := truncate(strings.Repeat("é", 10), 10)

	assert.Equal(t, "ééé...", got)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 10)

	for maxLen := 4; maxLen < 40; maxLen++ {
		got := truncate(strings.Repeat("日本語", 10), maxLen)
		assert.True(t, utf8.ValidString(got), "maxLen %d", maxLen)
		assert.LessOrEqual(t, len(got), maxLen, "maxLen %d", maxLen)
	}
}

func TestService_LogBook_MultibyteTitle(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	title := strings.Repeat("Война и мир ", 30)

	svc.LogBook(1, "book_add", title, "Added book "+title, nil)
	svc.Wait()

	events, _, err := svc.GetEvents(ctx, 1, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, utf8.ValidString(events[0].EntityKey))
	assert.True(t, utf8.ValidString(events[0].Description))
	assert.True(t, strings.HasSuffix(events[0].Description, "..."))
}
