// Package auth provides credential management, session handling and the
// request guards for the web UI.
//
// # Credentials
//
// Service registers users and verifies passwords. New passwords are hashed
// with bcrypt; hashes in the legacy "pbkdf2:sha256:<iterations>$<salt>$<hex>"
// format are still accepted at login.
//
// # Sessions
//
// SessionManager wraps scs with a SQLite store, so sessions survive restarts.
// A session is either anonymous or carries the user id and username set by
// Establish. It also carries one-shot notices shown on the next page.
//
// # Configuration
//
//	AUTH_SESSION_SECRET=<hex or raw>   # CSRF key; persisted in settings if empty
//	AUTH_SESSION_LIFETIME=24h          # Session duration
//	AUTH_BCRYPT_COST=12                # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true           # HTTPS-only cookies
//
// # Usage
//
//	authService := auth.NewService(usersRepo, cfg.Auth)
//	sessions := auth.NewSessionManager(sqlDB, cfg.Auth)
//	authMiddleware := auth.NewMiddleware(authService, sessions)
//	router.Use(sessions.SessionLoadSave(), authMiddleware.Handler())
//
// Extract the user in handlers:
//
//	identity := auth.GetIdentity(c) // nil when anonymous
package auth
