// Package server implements the MCP (Model Context Protocol) server for the
// sticker-sheet splitter.
//
// The server speaks JSON-RPC 2.0 over stdio: newline-delimited requests on
// stdin, responses on stdout. Log output goes exclusively to stderr so the
// protocol stream stays clean.
//
// Supported methods:
//   - initialize / notifications/initialized - MCP handshake
//   - tools/list - enumerate the sheet_* tools
//   - tools/call - execute a tool
//   - ping - liveness check
//
// Tool results are returned in MCP content format as pretty-printed JSON
// text. Tools that produce an image return it base64-encoded as PNG inside
// the JSON payload.
package server
