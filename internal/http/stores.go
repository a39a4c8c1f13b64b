package http

import (
	"context"
	"time"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

// This file consolidates the interfaces HTTP controllers depend on.
// Each controller receives only what it needs.

// BookStore provides catalog operations on books.
type BookStore interface {
	AddBook(ctx context.Context, book *entities.Book) error
	ListBooks(ctx context.Context) ([]entities.Book, error)
	GetBook(ctx context.Context, title string) (*entities.Book, error)
	UpdateBook(ctx context.Context, oldTitle string, book *entities.Book) error
	DeleteBook(ctx context.Context, title string) error
}

// CommentStore provides comment operations.
type CommentStore interface {
	AddComment(ctx context.Context, bookTitle string, authorID uint, content string) (*entities.Comment, error)
	ListComments(ctx context.Context, bookTitle string) ([]entities.Comment, error)
}

// AccountService registers and verifies users.
type AccountService interface {
	Register(ctx context.Context, username, email, password string) (*entities.User, error)
	Verify(ctx context.Context, username, password string) (*entities.User, error)
}

// AuditLogger records account and catalog events. Calls must not block.
type AuditLogger interface {
	LogAuth(userID uint, action, username, ipAddr, userAgent string, success bool)
	LogBook(userID uint, action, title, description string, err error)
	LogComment(userID uint, title string, err error)
}

// HealthChecker reports database reachability.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// LoginLimiter throttles repeated failed logins.
type LoginLimiter interface {
	Allow(ip, username string) (bool, time.Duration)
	RecordFailure(ip, username string) (bool, time.Duration)
	RecordSuccess(ip, username string)
}

type nopAudit struct{}

func (nopAudit) LogAuth(uint, string, string, string, string, bool) {}
func (nopAudit) LogBook(uint, string, string, string, error)        {}
func (nopAudit) LogComment(uint, string, error)                     {}

type nopLimiter struct{}

func (nopLimiter) Allow(string, string) (bool, time.Duration)         { return true, 0 }
func (nopLimiter) RecordFailure(string, string) (bool, time.Duration) { return false, 0 }
func (nopLimiter) RecordSuccess(string, string)                       {}
