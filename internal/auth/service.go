package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/forms"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	CreateUser(ctx context.Context, user *entities.User) error
	GetUserByID(ctx context.Context, id uint) (*entities.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
}

// Service handles registration and credential verification.
type Service struct {
	users  UserRepository
	config config.Auth

	dummyOnce sync.Once
	dummyHash []byte
}

// NewService creates a new authentication service.
func NewService(users UserRepository, cfg config.Auth) *Service {
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:  users,
		config: cfg,
	}
}

// Register creates a user account. Username uniqueness is checked before
// email uniqueness.
func (s *Service) Register(ctx context.Context, username, email, password string) (*entities.User, error) {
	form := forms.RegisterForm{Username: username, Email: email, Password: password}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Verify checks a username and password pair. Unknown users and wrong
// passwords both yield catalog.ErrInvalidCredentials.
func (s *Service) Verify(ctx context.Context, username, password string) (*entities.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, catalog.ErrNotFound) {
		// Equalize timing with the known-user path.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, catalog.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if !errors.Is(err, ErrInvalidPassword) {
			log.Warn().Err(err).Uint("user_id", user.ID).Msg("stored password hash could not be checked")
		}
		return nil, catalog.ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (s *Service) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	return s.users.GetUserByID(ctx, id)
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("dummy-password"), s.config.BcryptCost)
		if err != nil {
			log.Error().Err(err).Msg("failed to create dummy password hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
