package taskframe

import "context"

// activeFrameKey is the context.Context key under which the currently
// running Frame is stored. This is the idiomatic Go substitute for a
// per-thread "active frame" cell: Go has no thread-local storage, but
// context.Context is already how this codebase's host (and this module's
// teacher) threads call-scoped state through a goroutine's call graph.
type activeFrameKey struct{}

func withActive(ctx context.Context, f *Frame) context.Context {
	return context.WithValue(ctx, activeFrameKey{}, f)
}

func activeFrame(ctx context.Context) *Frame {
	f, _ := ctx.Value(activeFrameKey{}).(*Frame)
	return f
}
