// Package forms turns raw form submissions into validated, typed values.
//
// Every form has a Bind method that reads trimmed post-form fields from a gin
// context and a Validate method built on ozzo-validation. Validation failures
// wrap ErrInvalidInput; an unparseable rating is catalog.ErrInvalidRating.
package forms

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// ErrInvalidInput marks a submission that failed field validation.
var ErrInvalidInput = errors.New("invalid input")

const (
	MaxUsernameLength = 50
	MaxEmailLength    = 100
	MaxTitleLength    = 80
	// bcrypt ignores everything past 72 bytes.
	MaxPasswordBytes = 72
)

// ParseRating converts the rating field. Blank text does not parse and is
// rejected like any other non-number.
func ParseRating(text string) (*float64, error) {
	text = strings.TrimSpace(text)
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("%w: %q", catalog.ErrInvalidRating, text)
	}
	return &value, nil
}

// pathSafe rejects titles that URL normalization would collapse, so every
// book keeps a reachable page.
var pathSafe = validation.NotIn(".", "..").Error("title cannot be a dot segment")

// optionalText maps blank input to nil.
func optionalText(text string) *string {
	if text == "" {
		return nil
	}
	return &text
}

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

var passwordLength = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if len(s) > MaxPasswordBytes {
		return fmt.Errorf("must be at most %d bytes", MaxPasswordBytes)
	}
	return nil
})

type RegisterForm struct {
	Username string
	Email    string
	Password string
}

func (f *RegisterForm) Bind(c *gin.Context) {
	f.Username = strings.TrimSpace(c.PostForm("username"))
	f.Email = strings.TrimSpace(c.PostForm("email"))
	f.Password = c.PostForm("password")
}

func (f RegisterForm) Validate() error {
	return invalid(validation.ValidateStruct(&f,
		validation.Field(&f.Username,
			validation.Required.Error("username is required"),
			validation.RuneLength(1, MaxUsernameLength),
		),
		validation.Field(&f.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("invalid email format"),
			validation.RuneLength(3, MaxEmailLength),
		),
		validation.Field(&f.Password,
			validation.Required.Error("password is required"),
			passwordLength,
		),
	))
}

type LoginForm struct {
	Username string
	Password string
}

func (f *LoginForm) Bind(c *gin.Context) {
	f.Username = strings.TrimSpace(c.PostForm("username"))
	f.Password = c.PostForm("password")
}

func (f LoginForm) Validate() error {
	return invalid(validation.ValidateStruct(&f,
		validation.Field(&f.Username, validation.Required),
		validation.Field(&f.Password, validation.Required),
	))
}

// BookForm is the "add book" submission.
type BookForm struct {
	Title       string
	Description string
	Rating      string
}

func (f *BookForm) Bind(c *gin.Context) {
	f.Title = strings.TrimSpace(c.PostForm("title"))
	f.Description = strings.TrimSpace(c.PostForm("description"))
	f.Rating = strings.TrimSpace(c.PostForm("rating"))
}

func (f BookForm) Validate() error {
	return invalid(validation.ValidateStruct(&f,
		validation.Field(&f.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(1, MaxTitleLength),
			pathSafe,
		),
	))
}

// Book validates the form and returns the typed book.
func (f BookForm) Book() (*entities.Book, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	rating, err := ParseRating(f.Rating)
	if err != nil {
		return nil, err
	}
	return &entities.Book{Title: f.Title, Description: optionalText(f.Description), Rating: rating}, nil
}

// UpdateBookForm replaces every field of the book titled OldTitle.
type UpdateBookForm struct {
	OldTitle       string
	NewTitle       string
	NewDescription string
	NewRating      string
}

func (f *UpdateBookForm) Bind(c *gin.Context) {
	f.OldTitle = strings.TrimSpace(c.PostForm("oldtitle"))
	f.NewTitle = strings.TrimSpace(c.PostForm("newtitle"))
	f.NewDescription = strings.TrimSpace(c.PostForm("newdescription"))
	f.NewRating = strings.TrimSpace(c.PostForm("newrating"))
}

func (f UpdateBookForm) Validate() error {
	return invalid(validation.ValidateStruct(&f,
		validation.Field(&f.OldTitle, validation.Required.Error("book to update is required")),
		validation.Field(&f.NewTitle,
			validation.Required.Error("title is required"),
			validation.RuneLength(1, MaxTitleLength),
			pathSafe,
		),
	))
}

func (f UpdateBookForm) Book() (*entities.Book, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	rating, err := ParseRating(f.NewRating)
	if err != nil {
		return nil, err
	}
	return &entities.Book{Title: f.NewTitle, Description: optionalText(f.NewDescription), Rating: rating}, nil
}

type DeleteBookForm struct {
	Title string
}

func (f *DeleteBookForm) Bind(c *gin.Context) {
	f.Title = strings.TrimSpace(c.PostForm("title"))
}

func (f DeleteBookForm) Validate() error {
	return invalid(validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required.Error("title is required")),
	))
}

type CommentForm struct {
	Content string
}

func (f *CommentForm) Bind(c *gin.Context) {
	f.Content = strings.TrimSpace(c.PostForm("content"))
}

// Validate rejects blank comments with catalog.ErrEmptyComment.
func (f CommentForm) Validate() error {
	if strings.TrimSpace(f.Content) == "" {
		return catalog.ErrEmptyComment
	}
	return nil
}
