// Package server implements the MCP (Model Context Protocol) server for image collages.
//
// This package provides a JSON-RPC 2.0 server that exposes the collage engine
// through the MCP protocol, so MCP clients can combine image files into a
// single grid image and resize individual images.
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
//   - ping: Health check
//
// # Available Tools
//
// Source Images:
//   - image_load: Load image and get metadata, including its color mode
//   - image_dimensions: Get width and height
//   - image_thumbnail: Small preview fit inside a square box
//
// Collage:
//   - collage_plan: Rows and columns for a number of images
//   - collage_compose: Build the collage and return it as PNG
//
// Single Image:
//   - image_resize: Scale one image by a factor
//
// Optional arguments fall back to the configuration the server was started
// with (see package config). The configuration can be swapped at runtime with
// SetConfig; each tool call reads it once at the start.
//
// # Image Caching
//
// Source images are cached by path between calls. collage_compose evicts its
// sources when it finishes, since a batch of photos is rarely reused.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
