// Package server holds the transport-agnostic contract the fx lifecycle
// drives.
package server

import "context"

// Server is started on fx start and drained on fx stop.
type Server interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Addr() string
}
