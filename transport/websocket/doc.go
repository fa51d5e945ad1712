// Package websocket pushes live game updates to browser clients.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - State broadcasts after every change
//   - Hint events raised by idle timers
//   - Connection lifecycle management
//
// Architecture:
//
// A central Hub owns every connection. Its Run loop is the only goroutine that
// touches the client registry; registration, removal and broadcasts arrive on
// channels. Each client has a read pump that keeps the connection alive and a
// write pump that drains its send queue.
//
// Message Protocol:
//
// Clients connect to /ws?session=<id> and only receive. Messages are JSON:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//	{"session_id": "ab12", "event": "hint", "data": {"suggestion": {"row": 1, "col": 2}, ...}}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	svc := service.NewGameService(sessions, configs, service.WithHintNotifier(hub))
//	hub.BroadcastToSession(sessionID, state)
package websocket
