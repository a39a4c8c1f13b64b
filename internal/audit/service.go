// Package audit records who did what to accounts and the catalog.
package audit

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

const asyncTimeout = 5 * time.Second

type Repository interface {
	LogEvent(ctx context.Context, event *entities.AuditEvent) error
	GetEvents(ctx context.Context, userID uint, limit, offset int) ([]entities.AuditEvent, int64, error)
	DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error)
}

// Service provides high-level audit logging functionality.
type Service struct {
	repo    Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()
		if err := s.repo.LogEvent(ctx, event); err != nil {
			log.Error().Err(err).Str("action", event.Action).Msg("failed to log audit event")
		}
	}()
}

// Wait blocks until all background writes have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogAuth records an authentication event.
func (s *Service) LogAuth(userID uint, action, username, ipAddr, userAgent string, success bool) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventAuth,
		Action:      action,
		Description: truncate(action+": "+username, 500),
		EntityKey:   truncate(username, 255),
		IPAddress:   ipAddr,
		UserAgent:   truncate(userAgent, 500),
		Status:      statusOf(success),
	}
	s.LogAsync(event)
}

// LogBook records a catalog mutation (book_add, book_update, book_delete).
func (s *Service) LogBook(userID uint, action, title, description string, err error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventBook,
		Action:      action,
		Description: truncate(description, 500),
		EntityKey:   truncate(title, 255),
		Status:      statusOf(err == nil),
	}
	if err != nil {
		event.Description = truncate(description+": "+err.Error(), 500)
	}
	s.LogAsync(event)
}

// LogComment records a comment being posted on a book.
func (s *Service) LogComment(userID uint, title string, err error) {
	description := "Commented on " + title
	if err != nil {
		description += ": " + err.Error()
	}
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventComment,
		Action:      "comment_add",
		Description: truncate(description, 500),
		EntityKey:   truncate(title, 255),
		Status:      statusOf(err == nil),
	}
	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, userID uint, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, userID, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

func statusOf(success bool) entities.AuditStatus {
	if success {
		return entities.AuditStatusSuccess
	}
	return entities.AuditStatusFailed
}

// truncate shortens s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
