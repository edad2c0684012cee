// Package dev provides the development server and hot reload functionality.
//
// This package implements:
//   - Serving TOML documents as HTML, compiled on request
//   - A rendered-page cache keyed by source path and modification time
//   - File watching by polling
//   - WebSocket-based browser refresh and an error overlay
//
// # Architecture
//
// The development server consists of several components:
//
//   - Watcher: Polls the document root for changes
//   - pages: Resolves URLs to documents and compiles them through the cache
//   - Server: Routes requests with chi and exposes /metrics
//   - ReloadServer: Notifies browsers of changes via WebSocket
//
// # Usage
//
//	srv, err := dev.NewServer(dev.ServerOptions{Config: cfg})
//	if err != nil {
//	    return err
//	}
//	return srv.Start(ctx)
//
// # URL mapping
//
//	/            -> index.toml
//	/a/b.html    -> a/b.toml
//	/a/b         -> a/b.toml
//	/style.css   -> style.css, served as is
//
// # Hot Reload Protocol
//
// The browser connects to /_htoml/reload via WebSocket.
// Messages are JSON-encoded:
//
//	{"type": "reload"}                // Triggers full page reload
//	{"type": "error", "error": "..."} // Shows error overlay
//	{"type": "clear"}                 // Clears error overlay
//
// Hot reload can be disabled in htoml.json (serve.hotReload=false).
package dev
