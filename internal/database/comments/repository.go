// Package comments provides database operations for comments attached to
// books.
package comments

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Repository handles all comment database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new comments repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddComment attaches a comment by authorID to the book titled bookTitle.
// The book and the author must both exist at insert time.
func (r *Repository) AddComment(ctx context.Context, bookTitle string, authorID uint, content string) (*entities.Comment, error) {
	if authorID == 0 {
		return nil, catalog.ErrUnauthenticated
	}

	var comment *entities.Comment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.Where("title = ?", bookTitle).First(&book).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return catalog.ErrNotFound
			}
			return err
		}

		var author entities.User
		if err := tx.First(&author, authorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return catalog.ErrUnauthenticated
			}
			return err
		}

		content = strings.TrimSpace(content)
		if content == "" {
			return catalog.ErrEmptyComment
		}

		comment = &entities.Comment{
			Content:   content,
			UserID:    author.ID,
			BookTitle: book.Title,
		}
		if err := tx.Omit(clause.Associations).Create(comment).Error; err != nil {
			return err
		}
		comment.User = author
		return nil
	})

	switch {
	case err == nil:
		return comment, nil
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, catalog.ErrUnauthenticated),
		errors.Is(err, catalog.ErrEmptyComment):
		return nil, err
	default:
		return nil, catalog.StoreError("add comment", err)
	}
}

// ListComments returns the comments of a book, oldest first, with their
// authors loaded. An unknown title yields an empty list.
func (r *Repository) ListComments(ctx context.Context, bookTitle string) ([]entities.Comment, error) {
	comments := []entities.Comment{}
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("book_title = ?", bookTitle).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, catalog.StoreError("list comments", err)
	}
	return comments, nil
}
