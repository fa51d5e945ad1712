// Package api provides the HTTP REST API for Merge Tile.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current board
//   - POST /api/sessions/{id}/select - Select a tile ({"row": 0, "col": 1})
//   - POST /api/sessions/{id}/move - Move a tile ({"direction": "left", "row": 0, "col": 1})
//   - POST /api/sessions/{id}/restart - Deal a fresh board
//   - GET /api/sessions/{id}/hint - Suggest a tile that can merge
//   - GET /api/sessions/{id}/history - Move history (?page=1&limit=20&order=desc)
//
// Configuration:
//   - GET /api/configs - List presets
//   - POST /api/configs - Save a preset
//   - GET /api/configs/{name} - Get a preset
//
// Other:
//   - GET /api/health - Liveness
//   - GET /ws?session={id} - WebSocket feed of state updates and hints
//
// A move that cannot merge is not an HTTP error. The response is 200 and the
// outcome field says "blocked", "empty_source" or "out_of_bounds".
//
// Errors are returned as JSON:
//
//	{"error": "invalid direction: \"sideways\" (use up, down, left or right)"}
//
// with 400 for bad input, 404 for unknown sessions or presets, and 500
// otherwise.
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
