// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookStore: Book CRUD keyed by title (internal/http/stores.go)
//   - CommentStore: Comments on a book (internal/http/stores.go)
//   - UserRepository: Account persistence (internal/auth/service.go)
//   - settingsstore.Repository: Key/value settings (internal/settingsstore)
//   - audit.Repository: Audit event persistence (internal/audit/service.go)
//
// ## Service Interfaces
//
//   - AccountService: Register and verify credentials (internal/http/stores.go)
//   - AuditLogger: Fire-and-forget audit events (internal/http/stores.go)
//   - LoginLimiter: Failed login throttling (internal/http/stores.go)
//   - HealthChecker: Database reachability (internal/http/stores.go)
//
// ## Background Work
//
//   - AuditPruner: Deletes expired audit events (internal/tasks/cleanup_audit.go)
//
// # Adding a New Catalog Page
//
//  1. Add the storage method to a repository in internal/database/ and to the
//     matching store interface in internal/http/stores.go.
//
//  2. Add a controller method that binds a form from internal/forms, calls the
//     store and finishes with pages.redirect or pages.render:
//
//     func (bc *BooksController) Archive(c *gin.Context) {
//         var form forms.DeleteBookForm
//         form.Bind(c)
//         err := bc.books.ArchiveBook(c.Request.Context(), form.Title)
//         bc.redirect(c, "/", noticeFor(c, err, "Book archived.", "Failed to archive book."))
//     }
//
//  3. Register the route in router.go, behind RequireAuth if it mutates data.
//
//  4. Add a compile-time check here:
//
//     var _ http.BookStore = (*books.Repository)(nil)
package interfaces
