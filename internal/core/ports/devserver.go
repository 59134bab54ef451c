package ports

import "context"

// DevServer serves the destination tree with live reload.
type DevServer interface {
	Reloader
	// Serve blocks until ctx is cancelled or the server fails.
	Serve(ctx context.Context) error
	// URL is the address the server listens on.
	URL() string
}

// DevServerOptions configures a DevServer.
type DevServerOptions struct {
	Root string
	Host string
	Port int
	Open bool
}

// DevServerFactory creates a dev server for one start session.
type DevServerFactory func(opts DevServerOptions) (DevServer, error)
