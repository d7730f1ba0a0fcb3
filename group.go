package taskframe

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Group runs several framed children of the same parent concurrently, the
// way tokio::join! drives several branches of one future to completion.
// Unlike join!, Group's children run on real goroutines, so it is built
// directly on golang.org/x/sync/errgroup (the package the teacher already
// reaches for to fan work out in its own tests, e.g.
// fuse/test/node_parallel_lookup_test.go) rather than hand-rolled
// WaitGroup bookkeeping.
//
// The calling Frame's Run body must call Wait before returning: Group
// does not own the parent Frame's lifetime, and a child spawned via Go
// links itself under whatever Frame is active on the context NewGroup
// was given, so the parent must still be active (i.e. still inside its
// own Run call) when every child links in and unlinks out.
type Group struct {
	eg  *errgroup.Group
	ctx context.Context
}

// NewGroup returns a Group whose children will be spawned with a context
// derived from ctx, and a context that callers can pass to blocking work
// of their own so it observes cancellation the same way the group's
// children do.
func NewGroup(ctx context.Context) (*Group, context.Context) {
	eg, gctx := errgroup.WithContext(ctx)
	return &Group{eg: eg, ctx: gctx}, gctx
}

// Go spawns fn on a new goroutine as a framed child (with location loc) of
// whatever Frame was active on the context passed to NewGroup. If any
// goroutine spawned via Go returns a non-nil error, the group's context is
// canceled (see errgroup.WithContext) and Wait returns that first error.
func (g *Group) Go(loc Location, fn func(context.Context) error) {
	g.eg.Go(func() error {
		return New(loc).Run(g.ctx, fn)
	})
}

// Wait blocks until every goroutine spawned by Go has returned, and
// returns the first non-nil error, if any, exactly as errgroup.Group.Wait.
func (g *Group) Wait() error {
	return g.eg.Wait()
}
