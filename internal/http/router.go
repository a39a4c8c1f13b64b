package http

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/auth"
	"github.com/mrlokans/bookcatalog/internal/logging"
)

//go:embed templates/*.html static
var assets embed.FS

// RouterConfig holds all dependencies needed by the HTTP router.
type RouterConfig struct {
	Books          BookStore
	Comments       CommentStore
	Accounts       AccountService
	Sessions       *auth.SessionManager
	AuthMiddleware *auth.Middleware
	Limiter        LoginLimiter
	Audit          AuditLogger
	Health         HealthChecker

	// CSRFSecret enables CSRF protection when non-empty.
	CSRFSecret    []byte
	SecureCookies bool
	Version       string
}

// formatRating renders an optional rating, trimming trailing zeros.
func formatRating(rating *float64) string {
	if rating == nil {
		return ""
	}
	return strconv.FormatFloat(*rating, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Audit == nil {
		cfg.Audit = nopAudit{}
	}
	if cfg.Limiter == nil {
		cfg.Limiter = nopLimiter{}
	}

	router := gin.New()
	// Titles may contain an encoded slash.
	router.UseRawPath = true

	router.Use(logging.RequestLogger())
	router.Use(logging.Recovery())
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	// CSRF must run before the session middleware: it replaces the request,
	// which would drop the loaded session context.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	router.Use(cfg.Sessions.SessionLoadSave())
	router.Use(cfg.AuthMiddleware.Handler())
	router.Use(AuthContextMiddleware())

	funcMap := template.FuncMap{
		"bookURL":      bookURL,
		"formatRating": formatRating,
		"formatTime":   formatTime,
	}
	tmpl := template.Must(template.New("").Funcs(funcMap).ParseFS(assets, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	router.StaticFS("/static", http.FS(static))

	health := NewHealthController(cfg.Health, cfg.Version)
	accounts := NewAccountsController(cfg.Accounts, cfg.Sessions, cfg.Limiter, cfg.Audit)
	books := NewBooksController(cfg.Books, cfg.Comments, cfg.Sessions, cfg.Audit)

	router.GET("/health", health.Status)

	router.GET("/register", accounts.RegisterPage)
	router.POST("/register", accounts.Register)
	router.GET("/login", accounts.LoginPage)
	router.POST("/login", accounts.Login)
	router.GET("/logout", accounts.Logout)
	router.POST("/logout", accounts.Logout)

	// The catalog itself is members only; anonymous visitors are sent to
	// sign up.
	router.GET("/", cfg.AuthMiddleware.RequireAuth("/register"), books.Index)
	router.POST("/", cfg.AuthMiddleware.RequireAuth("/register"), books.AddBook)
	router.POST("/update", cfg.AuthMiddleware.RequireAuth("/login"), books.UpdateBook)
	router.POST("/delete", cfg.AuthMiddleware.RequireAuth("/login"), books.DeleteBook)

	router.GET("/books/:title", books.BookPage)
	router.POST("/books/:title", books.AddComment)
	router.GET("/:title", books.BookPage)
	router.POST("/:title", books.AddComment)

	router.NoRoute(func(c *gin.Context) {
		books.render(c, http.StatusNotFound, "not_found", nil)
	})

	return router
}
