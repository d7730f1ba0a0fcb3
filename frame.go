package taskframe

import (
	"context"
	"sync"

	"github.com/go-taskframe/taskframe/internal/intrusive"
)

// debugChecks enables extra invariant checks that are too expensive (or
// too paranoid) to run unconditionally. Mirrors the "paranoia" switch the
// teacher keeps in fuse/fsconnector.go.
var debugChecks = false

type frameKind int

const (
	kindUninitialized frameKind = iota
	kindRoot
	kindNode
)

// Frame is one node of a logical call tree. A Frame starts out
// uninitialized; its first Run call links it into the tree, either as the
// root of a new task (if no Frame is active on the incoming context) or as
// a child of the currently active Frame. It unlinks itself when that Run
// call returns, by any means (normal return, error, or panic).
//
// The zero value is not usable; construct with New.
type Frame struct {
	loc Location

	initOnce sync.Once
	kind     frameKind
	parent   *Frame

	// Valid only when kind == kindRoot. busyMu is held for the full
	// duration of the root's own Run call; treeMu guards this frame's
	// entire subtree's children/sibling links and is taken briefly by
	// whichever frame (root or descendant, on whatever goroutine)
	// performs a link or unlink, and once (read-locked) by a dumper
	// walking the subtree.
	busyMu sync.Mutex
	treeMu sync.RWMutex

	children intrusive.List[*Frame]
	links    intrusive.Pointers[*Frame]
}

// New returns an uninitialized Frame for the call site loc. It does
// nothing observable until its first Run call.
func New(loc Location) *Frame {
	return &Frame{loc: loc}
}

// Links implements intrusive.Elem so a *Frame can sit in its parent's
// children list.
func (f *Frame) Links() *intrusive.Pointers[*Frame] {
	return &f.links
}

// Location returns the call site this Frame was created for.
func (f *Frame) Location() Location {
	return f.loc
}

// Parent returns f's parent Frame, or nil if f is a task root.
func (f *Frame) Parent() *Frame {
	return f.parent
}

// Run links f into the logical call tree (on first use), runs fn with a
// context carrying f as the active frame, and unlinks f when fn returns.
//
// If ctx carries no active Frame, f becomes the root of a new task and is
// registered with the package-level task registry for the duration of this
// call. Otherwise f becomes a child of the Frame already active on ctx.
func (f *Frame) Run(ctx context.Context, fn func(context.Context) error) error {
	parent := activeFrame(ctx)
	f.initOnce.Do(func() { f.initialize(parent) })

	if f.kind == kindRoot {
		f.busyMu.Lock()
		defer f.busyMu.Unlock()
	}
	defer f.cleanup()

	return fn(withActive(ctx, f))
}

func (f *Frame) initialize(parent *Frame) {
	if parent == nil {
		f.kind = kindRoot
		registerTask(f)
		return
	}

	f.kind = kindNode
	f.parent = parent

	root := parent.root()
	root.treeMu.Lock()
	parent.children.PushFront(f)
	root.treeMu.Unlock()
}

func (f *Frame) cleanup() {
	switch f.kind {
	case kindRoot:
		deregisterTask(f)
	case kindNode:
		root := f.parent.root()
		root.treeMu.Lock()
		removed := f.parent.children.Remove(f)
		root.treeMu.Unlock()
		if debugChecks && !removed {
			panic("taskframe: frame was not linked in its parent's children at cleanup")
		}
	}
}

// root walks up to the task root that owns f's tree locks. f must already
// be initialized.
func (f *Frame) root() *Frame {
	for f.kind == kindNode {
		f = f.parent
	}
	return f
}

// Backtrace returns the chain of Locations from the Frame active on ctx up
// to (and including) its task root, nearest first. It returns nil if ctx
// carries no active Frame.
func Backtrace(ctx context.Context) []Location {
	f := activeFrame(ctx)
	if f == nil {
		return nil
	}

	var locs []Location
	for cur := f; cur != nil; cur = cur.parent {
		locs = append(locs, cur.loc)
	}
	return locs
}
