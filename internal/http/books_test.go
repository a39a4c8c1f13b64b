package http

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

func addBook(t *testing.T, b *browser, title, description, rating string) page {
	t.Helper()
	return b.follow("/", url.Values{
		"title":       {title},
		"description": {description},
		"rating":      {rating},
	})
}

func TestBooks_IndexRequiresLogin(t *testing.T) {
	app := setupTestApp(t)
	b := app.browser(t)

	p := b.get("/")
	require.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/register", p.location)
	assert.Contains(t, b.get(p.location).body, "You need to log in first.")

	p = b.post("/", url.Values{"title": {"Dune"}})
	assert.Equal(t, "/register", p.location)

	books, err := app.books.ListBooks(t.Context())
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestBooks_MutationsRequireLogin(t *testing.T) {
	app := setupTestApp(t)
	require.NoError(t, app.books.AddBook(t.Context(), &entities.Book{Title: "Dune"}))
	b := app.browser(t)

	p := b.post("/update", url.Values{"oldtitle": {"Dune"}, "newtitle": {"Arrakis"}})
	assert.Equal(t, "/login", p.location)
	p = b.post("/delete", url.Values{"title": {"Dune"}})
	assert.Equal(t, "/login", p.location)

	_, err := app.books.GetBook(t.Context(), "Dune")
	assert.NoError(t, err)
}

func TestBooks_AddAndList(t *testing.T) {
	app := setupTestApp(t)
	b := app.browser(t)
	b.signIn("alice")

	p := addBook(t, b, "Dune", "Spice and sand", "4.5")
	assert.Contains(t, p.body, "Book added successfully!")
	assert.Contains(t, p.body, `href="/books/Dune"`)
	assert.Contains(t, p.body, "Spice and sand")
	assert.Contains(t, p.body, "4.5")

	addBook(t, b, "anathem", "", "3")
	p = b.get("/")
	assert.Less(t, strings.Index(p.body, "anathem"), strings.Index(p.body, "Dune"), "titles sort case-insensitively")

	book, err := app.books.GetBook(t.Context(), "anathem")
	require.NoError(t, err)
	assert.Nil(t, book.Description)
}

func TestBooks_AddRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		rating  string
		message string
	}{
		{"invalid rating", "Dune", "five", "Rating must be a number."},
		{"blank rating", "Dune", "  ", "Rating must be a number."},
		{"blank title", "   ", "5", "Please check the form"},
		{"dot title", "..", "5", "Please check the form"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupTestApp(t)
			b := app.browser(t)
			b.signIn("alice")

			p := addBook(t, b, tt.title, "", tt.rating)
			assert.Contains(t, p.body, tt.message)

			books, err := app.books.ListBooks(t.Context())
			require.NoError(t, err)
			assert.Empty(t, books)
		})
	}
}

func TestBooks_AddDuplicateTitle(t *testing.T) {
	app := setupTestApp(t)
	b := app.browser(t)
	b.signIn("alice")

	addBook(t, b, "Dune", "first", "5")
	p := addBook(t, b, "Dune", "second", "1")

	assert.Contains(t, p.body, "A book with this title already exists.")
	book, err := app.books.GetBook(t.Context(), "Dune")
	require.NoError(t, err)
	assert.Equal(t, "first", book.DescriptionText())
}

func TestBooks_Update(t *testing.T) {
	app := setupTestApp(t)
	b := app.browser(t)
	b.signIn("alice")
	addBook(t, b, "Dune", "old", "3")

	p := b.follow("/update", url.Values{
		"oldtitle":       {"Dune"},
		"newtitle":       {"Dune Messiah"},
		"newdescription": {"sequel"},
		"newrating":      {"4"},
	})
	assert.Contains(t, p.body, "Book updated successfully!")

	_, err := app.books.GetBook(t.Context(), "Dune")
	assert.Error(t, err)
	book, err := app.books.GetBook(t.Context(), "Dune Messiah")
	require.NoError(t, err)
	assert.Equal(t, "sequel", book.DescriptionText())
	require.NotNil(t, book.Rating)
	assert.InDelta(t, 4.0, *book.Rating, 1e-9)
}

func TestBooks_UpdateErrors(t *testing.T) {
	app := setupTestApp(t)
	b := app.browser(t)
	b.signIn("alice")
	addBook(t, b, "Dune", "", "5")
	addBook(t, b, "Emma", "", "4")

	p := b.follow("/update", url.Values{"oldtitle": {"Missing"}, "newtitle": {"Other"}, "newrating": {"1"}})
	assert.Contains(t, p.body, "Book not found.")

	p = b.follow("/update", url.Values{"oldtitle": {"Dune"}, "newtitle": {"Emma"}, "newrating": {"1"}})
	assert.Contains(t, p.body, "A book with this title already exists.")

	p = b.follow("/update", url.Values{"oldtitle": {"Dune"}, "newtitle": {"Dune"}, "newrating": {""}})
	assert.Contains(t, p.body, "Rating must be a number.")

	p = b.follow("/update", url.Values{"oldtitle": {"Dune"}, "newtitle": {"."}, "newrating": {"1"}})
	assert.Contains(t, p.body, "Please check the form")

	book, err := app.books.GetBook(t.Context(), "Dune")
	require.NoError(t, err)
	require.NotNil(t, book.Rating)
	assert.InDelta(t, 5.0, *book.Rating, 1e-9)
}

func TestBooks_Delete(t *testing.T) {
	app := setupTestApp(t)
	b := app.browser(t)
	b.signIn("alice")
	addBook(t, b, "Dune", "", "5")

	p := b.follow("/delete", url.Values{"title": {"Dune"}})
	assert.Contains(t, p.body, "Book deleted successfully!")
	assert.Contains(t, p.body, "No books yet.")

	p = b.follow("/delete", url.Values{"title": {"Dune"}})
	assert.Contains(t, p.body, "Book not found.")
}

func TestBooks_BookPage(t *testing.T) {
	app := setupTestApp(t)
	spice := "Spice"
	require.NoError(t, app.books.AddBook(t.Context(), &entities.Book{Title: "Dune", Description: &spice}))
	b := app.browser(t)

	for _, path := range []string{"/books/Dune", "/Dune"} {
		p := b.get(path)
		assert.Equal(t, http.StatusOK, p.status, path)
		assert.Contains(t, p.body, "<h1>Dune</h1>")
		assert.Contains(t, p.body, "No comments yet.")
		assert.Contains(t, p.body, "to leave a comment")
	}
}

func TestBooks_BookPageNotFound(t *testing.T) {
	app := setupTestApp(t)
	b := app.browser(t)

	for _, path := range []string{"/books/Missing", "/Missing"} {
		p := b.get(path)
		assert.Equal(t, http.StatusNotFound, p.status, path)
		assert.Contains(t, p.body, "There is no book titled <strong>Missing</strong>")
	}

	p := b.post("/books/Missing", url.Values{"content": {"hello"}})
	assert.Equal(t, http.StatusNotFound, p.status)
}

func TestBooks_TitleWithSlash(t *testing.T) {
	app := setupTestApp(t)
	b := app.browser(t)
	b.signIn("alice")

	p := addBook(t, b, "Either/Or", "", "5")
	assert.Contains(t, p.body, `href="/books/Either%2FOr"`)

	p = b.get("/books/Either%2FOr")
	assert.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "<h1>Either/Or</h1>")
}

func TestBooks_AddComment(t *testing.T) {
	app := setupTestApp(t)
	require.NoError(t, app.books.AddBook(t.Context(), &entities.Book{Title: "Dune"}))
	b := app.browser(t)
	b.signIn("alice")

	p := b.post("/books/Dune", url.Values{"content": {"Loved it"}})
	require.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/books/Dune", p.location)

	view := b.get(p.location)
	assert.Contains(t, view.body, "Comment added successfully!")
	assert.Contains(t, view.body, "<strong>alice</strong>")
	assert.Contains(t, view.body, "Loved it")

	// The short form posts to the same handler.
	p = b.post("/Dune", url.Values{"content": {"Second read"}})
	assert.Equal(t, "/books/Dune", p.location)

	comments, err := app.comments.ListComments(t.Context(), "Dune")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Loved it", comments[0].Content)
	assert.Equal(t, "Second read", comments[1].Content)
}

func TestBooks_AddCommentRejected(t *testing.T) {
	app := setupTestApp(t)
	require.NoError(t, app.books.AddBook(t.Context(), &entities.Book{Title: "Dune"}))

	t.Run("anonymous", func(t *testing.T) {
		b := app.browser(t)
		p := b.post("/books/Dune", url.Values{"content": {"hello"}})
		require.Equal(t, http.StatusSeeOther, p.status)
		assert.Equal(t, "/login", p.location)
		assert.Contains(t, b.get(p.location).body, "You need to log in to comment.")
	})

	t.Run("blank", func(t *testing.T) {
		b := app.browser(t)
		b.signIn("alice")
		p := b.follow("/books/Dune", url.Values{"content": {"   "}})
		assert.Contains(t, p.body, "Comment must not be empty.")
	})

	comments, err := app.comments.ListComments(t.Context(), "Dune")
	require.NoError(t, err)
	assert.Empty(t, comments)
}
