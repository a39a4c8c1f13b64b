// Package database provides the data access layer for the application.
//
// # Architecture
//
// The schema is owned by goose migrations embedded in the migrations
// sub-package; GORM is used for queries only. Domain-specific repositories
// live in sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, constraint helpers
//	├── migrations/      # Embedded goose SQL migrations
//	├── users/           # Account records
//	├── books/           # Book catalog CRUD
//	├── comments/        # Comments attached to books
//	├── settings/        # Key/value application settings
//	└── audit/           # Audit trail
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./bookcatalog.db")
//
//	booksRepo := books.NewRepository(db.DB)
//	commentsRepo := comments.NewRepository(db.DB)
//
//	err = booksRepo.AddBook(ctx, &entities.Book{Title: "Dune"})
//	list, err := commentsRepo.ListComments(ctx, "Dune")
//
// # Constraints
//
// Foreign keys are switched on for every connection through the DSN.
// Renaming a book cascades to its comments and deleting a book deletes them.
// Repositories translate constraint failures with IsUniqueViolation and wrap
// all other driver errors with catalog.StoreError.
package database
