// Package mcp exposes Merge Tile to AI agents over the Model Context Protocol.
//
// The Client is a thin MCP server whose tools proxy to the REST API, so an
// agent and a browser can watch and play the same session.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - game_state: board as a right-aligned number grid
//   - select_tile: highlight a tile and list its merge directions
//   - move_tile: move the tile at (row, col); coordinates are always sent
//   - restart_game: deal a fresh board
//   - hint: tiles that can merge plus one suggestion
//   - move_history: paginated history
//   - list_configs: available presets
//   - game_instructions: full rules
//   - describe_cell: what a tile meets in each direction
//
// Board rendering:
//
//	      0   1   2   3
//	 0 |[ 2]  .   2   .
//	 1 |  .   4   .   .
//	 2 |  .   .   .   .
//	 3 | 16   .   .   4
//
// Empty cells are "." and the selected tile is bracketed.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
