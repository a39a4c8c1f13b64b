package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookcatalog/internal/auth"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/forms"
	"github.com/mrlokans/bookcatalog/internal/logging"
)

// pages renders templates and carries notices across redirects.
type pages struct {
	sessions *auth.SessionManager
}

// render executes a named template with the auth data and the pending
// notice added.
func (p pages) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Auth"] = GetAuthTemplateData(c)
	data["Notice"] = p.sessions.PopNotice(c.Request)
	c.HTML(status, name, data)
}

// redirect sends the client to location with a notice for the next page.
// 303 makes browsers follow a POST with a GET.
func (p pages) redirect(c *gin.Context, location string, notice auth.Notice) {
	p.sessions.Flash(c.Request, notice.Kind, notice.Message)
	c.Redirect(http.StatusSeeOther, location)
}

func success(message string) auth.Notice {
	return auth.Notice{Kind: auth.NoticeSuccess, Message: message}
}

func failure(message string) auth.Notice {
	return auth.Notice{Kind: auth.NoticeDanger, Message: message}
}

// noticeFor maps an operation result to the notice shown to the user.
// Unexpected errors are logged and reported with the generic failed message.
func noticeFor(c *gin.Context, err error, succeeded, failed string) auth.Notice {
	switch {
	case err == nil:
		return success(succeeded)
	case errors.Is(err, forms.ErrInvalidInput):
		detail := strings.TrimPrefix(err.Error(), forms.ErrInvalidInput.Error()+": ")
		return failure("Please check the form: " + detail)
	case errors.Is(err, catalog.ErrInvalidRating):
		return failure("Rating must be a number.")
	case errors.Is(err, catalog.ErrDuplicateTitle):
		return failure("A book with this title already exists.")
	case errors.Is(err, catalog.ErrNotFound):
		return failure("Book not found.")
	case errors.Is(err, catalog.ErrDuplicateUsername):
		return failure("Username already exists. Please choose another one.")
	case errors.Is(err, catalog.ErrDuplicateEmail):
		return failure("Email already registered. Please use another one.")
	case errors.Is(err, catalog.ErrInvalidCredentials):
		return failure("Invalid credentials. Please try again.")
	case errors.Is(err, catalog.ErrEmptyComment):
		return failure("Comment must not be empty.")
	case errors.Is(err, catalog.ErrUnauthenticated):
		return failure("You need to log in first.")
	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString(logging.RequestIDKey)).
			Str("path", c.Request.URL.Path).
			Msg(failed)
		return failure(failed)
	}
}

// bookURL is the canonical address of a book's page.
func bookURL(title string) string {
	return "/books/" + url.PathEscape(title)
}
