package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/auth"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/forms"
)

// AccountsController handles registration, login and logout.
type AccountsController struct {
	pages
	accounts AccountService
	limiter  LoginLimiter
	audit    AuditLogger
}

func NewAccountsController(accounts AccountService, sessions *auth.SessionManager, limiter LoginLimiter, audit AuditLogger) *AccountsController {
	return &AccountsController{
		pages:    pages{sessions: sessions},
		accounts: accounts,
		limiter:  limiter,
		audit:    audit,
	}
}

// RegisterPage renders the registration form.
// GET /register
func (ac *AccountsController) RegisterPage(c *gin.Context) {
	ac.render(c, http.StatusOK, "register", nil)
}

// Register creates an account and sends the user to the login page.
// POST /register
func (ac *AccountsController) Register(c *gin.Context) {
	var form forms.RegisterForm
	form.Bind(c)

	user, err := ac.accounts.Register(c.Request.Context(), form.Username, form.Email, form.Password)
	if err != nil {
		ac.audit.LogAuth(0, "register", form.Username, c.ClientIP(), c.Request.UserAgent(), false)
		ac.redirect(c, "/register", noticeFor(c, err, "", "Failed to register."))
		return
	}

	ac.audit.LogAuth(user.ID, "register", user.Username, c.ClientIP(), c.Request.UserAgent(), true)
	ac.redirect(c, "/login", success("Registration successful! Please log in."))
}

// LoginPage renders the login form.
// GET /login
func (ac *AccountsController) LoginPage(c *gin.Context) {
	ac.render(c, http.StatusOK, "login", nil)
}

// Login verifies credentials and establishes the session.
// POST /login
func (ac *AccountsController) Login(c *gin.Context) {
	var form forms.LoginForm
	form.Bind(c)

	if err := form.Validate(); err != nil {
		ac.redirect(c, "/login", noticeFor(c, err, "", "Failed to log in."))
		return
	}

	ip := c.ClientIP()
	if allowed, retryAfter := ac.limiter.Allow(ip, form.Username); !allowed {
		ac.audit.LogAuth(0, "login_throttled", form.Username, ip, c.Request.UserAgent(), false)
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
		ac.redirect(c, "/login", failure("Too many login attempts. Please try again later."))
		return
	}

	user, err := ac.accounts.Verify(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidCredentials) {
			ac.limiter.RecordFailure(ip, form.Username)
		}
		ac.audit.LogAuth(0, "login", form.Username, ip, c.Request.UserAgent(), false)
		ac.redirect(c, "/login", noticeFor(c, err, "", "Failed to log in."))
		return
	}

	if err := ac.sessions.Establish(c.Request, user); err != nil {
		ac.redirect(c, "/login", noticeFor(c, err, "", "Failed to start session."))
		return
	}
	ac.limiter.RecordSuccess(ip, form.Username)
	ac.audit.LogAuth(user.ID, "login", user.Username, ip, c.Request.UserAgent(), true)
	ac.redirect(c, "/", success("Logged in successfully!"))
}

// Logout ends the session.
// GET /logout and POST /logout
func (ac *AccountsController) Logout(c *gin.Context) {
	identity := auth.GetIdentity(c)
	if err := ac.sessions.Clear(c.Request); err != nil {
		ac.redirect(c, "/login", noticeFor(c, err, "", "Failed to log out."))
		return
	}
	if identity != nil {
		ac.audit.LogAuth(identity.UserID, "logout", identity.Username, c.ClientIP(), c.Request.UserAgent(), true)
	}
	ac.redirect(c, "/login", success("You have been logged out."))
}
