// Package service provides the business logic layer for Merge Tile.
//
// The service package implements:
//   - Multi-session game management
//   - Tile selection and move processing
//   - Hints, both on request and after an idle delay
//   - Move history pagination
//   - Configuration access
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
// HintNotifier receives hints raised by a session's idle timer.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and the
// engine. One mutex serialises every operation, so a request or a fired hint
// always sees a board no other caller is changing. Returned game states are
// snapshots.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr,
//		service.WithHintNotifier(hub))
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameService.SelectTile(ctx, info.ID, 0, 0)
//	result, err := gameService.Move(ctx, info.ID, service.MoveRequest{Direction: "right"})
//
// Move outcomes (blocked, empty_source, out_of_bounds) are reported in
// MoveResult.Outcome. Errors are reserved for bad requests: an unknown
// session, ErrInvalidDirection, ErrInvalidSelection and ErrNoSelection.
package service
