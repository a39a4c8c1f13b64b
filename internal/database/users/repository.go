// Package users provides database operations for account records.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	err := repo.CreateUser(ctx, &entities.User{Username: "alice", ...})
//	user, err := repo.GetUserByUsername(ctx, "alice")
package users

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a user after checking username and then email
// uniqueness in the same transaction. A constraint failure from a concurrent
// insert is reported as the matching duplicate error.
func (r *Repository) CreateUser(ctx context.Context, user *entities.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, "username = ?", user.Username)
		if err != nil {
			return err
		}
		if taken {
			return catalog.ErrDuplicateUsername
		}

		taken, err = exists(tx, "email = ?", user.Email)
		if err != nil {
			return err
		}
		if taken {
			return catalog.ErrDuplicateEmail
		}

		return tx.Create(user).Error
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalog.ErrDuplicateUsername), errors.Is(err, catalog.ErrDuplicateEmail):
		return err
	case database.IsUniqueViolation(err, "users.username"):
		return catalog.ErrDuplicateUsername
	case database.IsUniqueViolation(err, "users.email"):
		return catalog.ErrDuplicateEmail
	default:
		return catalog.StoreError("create user", err)
	}
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, lookupError("get user", err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, lookupError("get user by username", err)
	}
	return &user, nil
}

func exists(tx *gorm.DB, query string, arg any) (bool, error) {
	var count int64
	if err := tx.Model(&entities.User{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func lookupError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return catalog.ErrNotFound
	}
	return catalog.StoreError(op, err)
}
