// Package session provides in-memory session management for Merge Tile.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager stores service.Session values keyed by lower-cased ID. Each session
// owns its own engine instance, its selected tile and its idle hint timer.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters from crypto/rand, retried on collision.
// Lookups are case-insensitive.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sessionID)
//	sessions := manager.List()
//
// Cleanup:
//
// Delete and CleanupExpiredSessions stop the session's hint timer before
// dropping it, so no hint fires for a session that no longer exists.
package session
