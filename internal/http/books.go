package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookcatalog/internal/auth"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/forms"
)

type BooksController struct {
	pages
	books    BookStore
	comments CommentStore
	audit    AuditLogger
}

func NewBooksController(books BookStore, comments CommentStore, sessions *auth.SessionManager, audit AuditLogger) *BooksController {
	return &BooksController{
		pages:    pages{sessions: sessions},
		books:    books,
		comments: comments,
		audit:    audit,
	}
}

// Index lists the catalog.
// GET /
func (bc *BooksController) Index(c *gin.Context) {
	books, err := bc.books.ListBooks(c.Request.Context())
	data := gin.H{"Books": books}
	if err != nil {
		notice := noticeFor(c, err, "", "Failed to load books.")
		data["Books"] = []entities.Book{}
		data["Error"] = notice.Message
	}
	bc.render(c, http.StatusOK, "index", data)
}

// AddBook creates a book from the add form.
// POST /
func (bc *BooksController) AddBook(c *gin.Context) {
	var form forms.BookForm
	form.Bind(c)

	book, err := form.Book()
	if err == nil {
		err = bc.books.AddBook(c.Request.Context(), book)
	}

	bc.audit.LogBook(auth.GetUserID(c), "book_add", form.Title, "Added book "+form.Title, err)
	bc.redirect(c, "/", noticeFor(c, err, "Book added successfully!", "Failed to add book."))
}

// UpdateBook replaces the fields of an existing book, possibly renaming it.
// POST /update
func (bc *BooksController) UpdateBook(c *gin.Context) {
	var form forms.UpdateBookForm
	form.Bind(c)

	book, err := form.Book()
	if err == nil {
		err = bc.books.UpdateBook(c.Request.Context(), form.OldTitle, book)
	}

	bc.audit.LogBook(auth.GetUserID(c), "book_update", form.OldTitle, "Updated book "+form.OldTitle, err)
	bc.redirect(c, "/", noticeFor(c, err, "Book updated successfully!", "Failed to update book."))
}

// DeleteBook removes a book and its comments.
// POST /delete
func (bc *BooksController) DeleteBook(c *gin.Context) {
	var form forms.DeleteBookForm
	form.Bind(c)

	err := form.Validate()
	if err == nil {
		err = bc.books.DeleteBook(c.Request.Context(), form.Title)
	}

	bc.audit.LogBook(auth.GetUserID(c), "book_delete", form.Title, "Deleted book "+form.Title, err)
	bc.redirect(c, "/", noticeFor(c, err, "Book deleted successfully!", "Failed to delete book."))
}

// BookPage shows a book with its comments.
// GET /books/:title and GET /:title
func (bc *BooksController) BookPage(c *gin.Context) {
	book, ok := bc.loadBook(c)
	if !ok {
		return
	}

	comments, err := bc.comments.ListComments(c.Request.Context(), book.Title)
	data := gin.H{"Book": book, "Comments": comments}
	if err != nil {
		notice := noticeFor(c, err, "", "Failed to load comments.")
		data["Comments"] = []entities.Comment{}
		data["Error"] = notice.Message
	}
	bc.render(c, http.StatusOK, "book", data)
}

// AddComment posts a comment as the logged-in user.
// POST /books/:title and POST /:title
func (bc *BooksController) AddComment(c *gin.Context) {
	book, ok := bc.loadBook(c)
	if !ok {
		return
	}

	identity := auth.GetIdentity(c)
	if identity == nil {
		bc.redirect(c, "/login", failure("You need to log in to comment."))
		return
	}

	var form forms.CommentForm
	form.Bind(c)

	err := form.Validate()
	if err == nil {
		_, err = bc.comments.AddComment(c.Request.Context(), book.Title, identity.UserID, form.Content)
	}
	bc.audit.LogComment(identity.UserID, book.Title, err)

	if errors.Is(err, catalog.ErrUnauthenticated) {
		bc.redirect(c, "/login", noticeFor(c, err, "", ""))
		return
	}
	bc.redirect(c, bookURL(book.Title), noticeFor(c, err, "Comment added successfully!", "Failed to add comment."))
}

// loadBook resolves the :title parameter, rendering the not-found page or
// redirecting with a notice when it cannot.
func (bc *BooksController) loadBook(c *gin.Context) (*entities.Book, bool) {
	title := c.Param("title")
	book, err := bc.books.GetBook(c.Request.Context(), title)
	switch {
	case err == nil:
		return book, true
	case errors.Is(err, catalog.ErrNotFound):
		log.Debug().Str("title", title).Msg("book not found")
		bc.render(c, http.StatusNotFound, "not_found", gin.H{"Title": title})
	default:
		bc.redirect(c, "/", noticeFor(c, err, "", "Failed to load book."))
	}
	return nil, false
}
