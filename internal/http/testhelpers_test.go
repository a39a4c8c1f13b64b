package http

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/bookcatalog/internal/auth"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/database/books"
	"github.com/mrlokans/bookcatalog/internal/database/comments"
	"github.com/mrlokans/bookcatalog/internal/database/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	db       *database.Database
	books    *books.Repository
	comments *comments.Repository
	users    *users.Repository
	accounts *auth.Service
	server   *httptest.Server
}

type appOption func(*RouterConfig)

func withCSRF(secret []byte) appOption {
	return func(cfg *RouterConfig) { cfg.CSRFSecret = secret }
}

func withLimiter(limiter LoginLimiter) appOption {
	return func(cfg *RouterConfig) { cfg.Limiter = limiter }
}

func setupTestApp(t *testing.T, opts ...appOption) *testApp {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	sqlDB, err := db.SQLDB()
	require.NoError(t, err)

	authCfg := config.Auth{
		SessionLifetime:  time.Hour,
		BcryptCost:       bcrypt.MinCost,
		MaxLoginAttempts: 3,
		RateLimitWindow:  time.Minute,
		LockoutDuration:  time.Minute,
	}

	app := &testApp{
		db:       db,
		books:    books.NewRepository(db.DB),
		comments: comments.NewRepository(db.DB),
		users:    users.NewRepository(db.DB),
	}
	app.accounts = auth.NewService(app.users, authCfg)
	sessions := auth.NewSessionManager(sqlDB, authCfg)

	cfg := RouterConfig{
		Books:          app.books,
		Comments:       app.comments,
		Accounts:       app.accounts,
		Sessions:       sessions,
		AuthMiddleware: auth.NewMiddleware(app.accounts, sessions),
		Health:         db,
		Version:        "test",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	app.server = httptest.NewServer(NewRouter(cfg))
	t.Cleanup(func() {
		app.server.Close()
		sessions.Close()
		_ = db.Close()
	})
	return app
}

// browser is a cookie-keeping client that does not follow redirects.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (app *testApp) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: app.server.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type page struct {
	status   int
	location string
	header   http.Header
	body     string
}

func (b *browser) do(req *http.Request) page {
	b.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return page{
		status:   resp.StatusCode,
		location: resp.Header.Get("Location"),
		header:   resp.Header,
		body:     string(body),
	}
}

func (b *browser) get(path string) page {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) page {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// follow posts a form and then loads the page it redirects to.
func (b *browser) follow(path string, form url.Values) page {
	b.t.Helper()
	p := b.post(path, form)
	require.Equal(b.t, http.StatusSeeOther, p.status, "POST %s should redirect", path)
	return b.get(p.location)
}

func (b *browser) register(username, email, password string) page {
	b.t.Helper()
	return b.post("/register", url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	})
}

func (b *browser) login(username, password string) page {
	b.t.Helper()
	return b.post("/login", url.Values{
		"username": {username},
		"password": {password},
	})
}

// signIn registers a user and logs the browser in.
func (b *browser) signIn(username string) {
	b.t.Helper()
	require.Equal(b.t, "/login", b.register(username, username+"@example.com", "secret-pw").location)
	require.Equal(b.t, "/", b.login(username, "secret-pw").location)
}
