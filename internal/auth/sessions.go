package auth

import (
	"database/sql"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Session data keys
const (
	SessionKeyUserID   = "user_id"
	SessionKeyUsername = "username"
	SessionKeyLoginAt  = "login_at"
	SessionKeyNotice   = "notice"
)

// Notice kinds
const (
	NoticeSuccess = "success"
	NoticeDanger  = "danger"
	NoticeInfo    = "info"
)

// Notice is a one-shot message shown on the next rendered page.
type Notice struct {
	Kind    string
	Message string
}

func init() {
	// Register types that will be stored in sessions
	gob.Register(time.Time{})
	gob.Register(Notice{})
}

// Identity is the authenticated side of a session.
type Identity struct {
	UserID   uint
	Username string
	LoginAt  time.Time
}

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
	store *sqlite3store.SQLite3Store
}

// NewSessionManager creates a configured session manager backed by the
// sessions table. The sqlDB parameter should be the underlying *sql.DB from
// GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) *SessionManager {
	sm := scs.New()

	store := sqlite3store.New(sqlDB)
	sm.Store = store

	lifetime := cfg.SessionLifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	sm.Lifetime = lifetime
	sm.IdleTimeout = lifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm, store: store}
}

// Close stops the expired-session cleanup goroutine.
func (sm *SessionManager) Close() {
	sm.store.StopCleanup()
}

// Establish turns the current session into an authenticated one. The token
// is renewed first to prevent session fixation.
func (sm *SessionManager) Establish(r *http.Request, user *entities.User) error {
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}

	// Store user ID as int to match GetInt() retrieval
	sm.Put(r.Context(), SessionKeyUserID, int(user.ID))
	sm.Put(r.Context(), SessionKeyUsername, user.Username)
	sm.Put(r.Context(), SessionKeyLoginAt, time.Now().UTC())
	return nil
}

// Current returns the session identity, or nil for an anonymous session.
func (sm *SessionManager) Current(r *http.Request) *Identity {
	userID := sm.GetInt(r.Context(), SessionKeyUserID)
	if userID <= 0 {
		return nil
	}

	loginAt, _ := sm.Get(r.Context(), SessionKeyLoginAt).(time.Time)
	return &Identity{
		UserID:   uint(userID),
		Username: sm.GetString(r.Context(), SessionKeyUsername),
		LoginAt:  loginAt,
	}
}

// Clear removes all session data and invalidates the session token.
func (sm *SessionManager) Clear(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// Flash stores a notice for the next rendered page.
func (sm *SessionManager) Flash(r *http.Request, kind, message string) {
	sm.Put(r.Context(), SessionKeyNotice, Notice{Kind: kind, Message: message})
}

// PopNotice returns and removes the pending notice, if any.
func (sm *SessionManager) PopNotice(r *http.Request) *Notice {
	notice, ok := sm.Pop(r.Context(), SessionKeyNotice).(Notice)
	if !ok {
		return nil
	}
	return &notice
}
