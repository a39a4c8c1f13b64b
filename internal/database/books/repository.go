// Package books provides database operations for the book catalog.
//
// Books are keyed by title. Every read-check-write sequence runs in a single
// transaction and the schema constraints back it up against concurrent
// writers.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	err := repo.AddBook(ctx, &entities.Book{Title: "Dune"})
//	list, err := repo.ListBooks(ctx)
package books

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddBook inserts a new book. Returns catalog.ErrDuplicateTitle when the
// title is already taken.
func (r *Repository) AddBook(ctx context.Context, book *entities.Book) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := titleExists(tx, book.Title)
		if err != nil {
			return err
		}
		if taken {
			return catalog.ErrDuplicateTitle
		}
		return tx.Create(book).Error
	})
	return translate("add book", err)
}

// ListBooks returns every book ordered by title, case-insensitively.
func (r *Repository) ListBooks(ctx context.Context) ([]entities.Book, error) {
	books := []entities.Book{}
	err := r.db.WithContext(ctx).Order("LOWER(title) ASC, title ASC").Find(&books).Error
	if err != nil {
		return nil, catalog.StoreError("list books", err)
	}
	return books, nil
}

// GetBook retrieves a book by its exact title.
func (r *Repository) GetBook(ctx context.Context, title string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Where("title = ?", title).First(&book).Error
	if err != nil {
		return nil, translate("get book", err)
	}
	return &book, nil
}

// UpdateBook replaces title, description and rating of the book currently
// titled oldTitle. A rename carries the book's comments along.
func (r *Repository) UpdateBook(ctx context.Context, oldTitle string, book *entities.Book) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entities.Book
		if err := tx.Where("title = ?", oldTitle).First(&existing).Error; err != nil {
			return err
		}

		if book.Title != oldTitle {
			taken, err := titleExists(tx, book.Title)
			if err != nil {
				return err
			}
			if taken {
				return catalog.ErrDuplicateTitle
			}
		}

		now := time.Now().UTC()
		err := tx.Model(&entities.Book{}).Where("title = ?", oldTitle).Updates(map[string]any{
			"title":       book.Title,
			"description": book.Description,
			"rating":      book.Rating,
			"updated_at":  now,
		}).Error
		if err != nil {
			return err
		}

		book.CreatedAt = existing.CreatedAt
		book.UpdatedAt = now
		return nil
	})
	return translate("update book", err)
}

// DeleteBook removes a book; its comments are removed by the schema cascade.
func (r *Repository) DeleteBook(ctx context.Context, title string) error {
	result := r.db.WithContext(ctx).Where("title = ?", title).Delete(&entities.Book{})
	if result.Error != nil {
		return catalog.StoreError("delete book", result.Error)
	}
	if result.RowsAffected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func titleExists(tx *gorm.DB, title string) (bool, error) {
	var count int64
	if err := tx.Model(&entities.Book{}).Where("title = ?", title).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalog.ErrDuplicateTitle):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return catalog.ErrNotFound
	case database.IsUniqueViolation(err, "books.title"):
		return catalog.ErrDuplicateTitle
	default:
		return catalog.StoreError(op, err)
	}
}
