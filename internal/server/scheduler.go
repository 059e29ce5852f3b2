package server

import "context"

// Scheduler runs background jobs for the lifetime of the server.
type Scheduler interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}
