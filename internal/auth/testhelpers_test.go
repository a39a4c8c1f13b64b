package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/database/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db       *database.Database
	users    *users.Repository
	service  *Service
	sessions *SessionManager
	config   config.Auth
}

func testAuthConfig() config.Auth {
	return config.Auth{
		SessionLifetime:  time.Hour,
		BcryptCost:       bcrypt.MinCost,
		MaxLoginAttempts: 3,
		RateLimitWindow:  time.Minute,
		LockoutDuration:  time.Minute,
	}
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	sqlDB, err := db.SQLDB()
	require.NoError(t, err)

	cfg := testAuthConfig()
	repo := users.NewRepository(db.DB)
	sessions := NewSessionManager(sqlDB, cfg)
	t.Cleanup(func() {
		sessions.Close()
		_ = db.Close()
	})

	return &testEnv{
		db:       db,
		users:    repo,
		service:  NewService(repo, cfg),
		sessions: sessions,
		config:   cfg,
	}
}
