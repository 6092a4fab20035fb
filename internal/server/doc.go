// Package server implements the MCP (Model Context Protocol) server for part detection.
//
// This package provides a JSON-RPC 2.0 server that exposes the part finder
// through the MCP protocol, so an assistant can locate, count and inspect
// square parts in a photograph without seeing the pixels itself.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Part Detection:
//   - parts_detect: Find parts, returned as [x, y, width, height]
//   - parts_count: Number of parts
//
// Part Output:
//   - parts_annotate: Outline every part on a copy of the image
//   - parts_crop: Extract one or all parts as PNG
//   - parts_colors: Mean color of each part
//   - parts_area_chart: Area distribution with mean and outlier cutoff
//
// OCR:
//   - parts_read_labels: Text printed inside each part
//
// # Caching
//
// Images are cached by path and reused across tool calls. Detection results
// are cached by path as well, so the part indices used by parts_crop,
// parts_colors and parts_read_labels always refer to the list parts_detect
// returned. Pass refresh to parts_detect after the file changes on disk.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32602 for bad arguments or detection parameters, -32000 for
//     any other tool failure, -32601 for unknown methods
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv, err := server.New(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
