// Package server implements the MCP (Model Context Protocol) server for iOS
// Simulator screenshots.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - resources/list: Always empty
//   - ping: Health check
//
// # Tools
//
// get_screenshot captures the simulator screen, saves it under the output
// root and returns the capture result as indented JSON text content. The
// result carries isError when the capture failed; JSON-RPC errors are
// reserved for malformed calls and unknown tools.
//
// Logs go to stderr. Stdout is reserved for protocol messages.
package server
