package engine

import "context"

// Handler is one stage of the routing graph. A handler inspects the session
// state, optionally appends an assistant reply, and records its own visit.
// Handlers never decide routing; that is the transition policy's job.
type Handler interface {
	Name() string
	Handle(ctx context.Context, st *State) error
}
