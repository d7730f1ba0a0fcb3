package taskframe

import (
	"context"
	"fmt"
	"strings"
)

// PrettyTree renders t's logical call tree as a forest-of-one box-drawing
// tree, rooted at "╼ <location>".
//
// If the goroutine calling PrettyTree is itself running inside t (a
// reentrant dump, detected via ctx), the tree is rendered directly: the
// caller already holds whatever invariant a lock would otherwise protect,
// since it IS the task being dumped. Otherwise PrettyTree tries to
// establish that t is idle by acquiring its root's busy lock: if
// blockUntilIdle is true it blocks until t's Run call returns (or
// finishes waiting on its own children, see the Group contract); if false
// and the lock is not immediately available, it renders just the root
// line followed by a "[POLLING]" marker instead of blocking.
func (t Task) PrettyTree(ctx context.Context, blockUntilIdle bool) string {
	f := t.f

	current := activeFrame(ctx)
	reentrant := current != nil && current.root() == f

	if !reentrant {
		if blockUntilIdle {
			f.busyMu.Lock()
			defer f.busyMu.Unlock()
		} else if f.busyMu.TryLock() {
			defer f.busyMu.Unlock()
		} else {
			return "╼ " + f.loc.String() + "\n  └┈ [POLLING]\n"
		}
	}

	f.treeMu.RLock()
	defer f.treeMu.RUnlock()

	var sb strings.Builder
	sb.WriteString("╼ " + f.loc.String() + "\n")
	renderChildren(&sb, f, "  ")
	return sb.String()
}

// TaskDumpTree renders every currently registered task's tree, one after
// another, each produced exactly as Task.PrettyTree would for that task.
func TaskDumpTree(ctx context.Context, blockUntilIdle bool) string {
	var sb strings.Builder
	for _, t := range Tasks() {
		sb.WriteString(t.PrettyTree(ctx, blockUntilIdle))
	}
	return sb.String()
}

// renderChildren writes parent's children, one box-drawing line (or
// consolidated "Nx " line) per run of consecutive deep-equal siblings,
// recursing into each representative's own children. Caller must already
// hold parent's root's treeMu for reading.
func renderChildren(sb *strings.Builder, parent *Frame, prefix string) {
	var kids []*Frame
	parent.children.Each(func(e *Frame, _ bool) {
		kids = append(kids, e)
	})

	for i := 0; i < len(kids); {
		j := i + 1
		for j < len(kids) && equalSubtree(kids[i], kids[j]) {
			j++
		}
		count := j - i
		isLastGroup := j == len(kids)

		branch := "├╼ "
		childPrefix := prefix + "│ "
		if isLastGroup {
			branch = "└╼ "
			childPrefix = prefix + "  "
		}

		label := kids[i].loc.String()
		if count > 1 {
			label = fmt.Sprintf("%dx %s", count, label)
		}
		sb.WriteString(prefix + branch + label + "\n")

		renderChildren(sb, kids[i], childPrefix)

		i = j
	}
}

// equalSubtree reports whether a and b are indistinguishable in a
// rendered dump: same location, same number of children, and each child
// pairwise equalSubtree in list order.
func equalSubtree(a, b *Frame) bool {
	if a.loc != b.loc {
		return false
	}

	var aKids, bKids []*Frame
	a.children.Each(func(e *Frame, _ bool) { aKids = append(aKids, e) })
	b.children.Each(func(e *Frame, _ bool) { bKids = append(bKids, e) })

	if len(aKids) != len(bKids) {
		return false
	}
	for i := range aKids {
		if !equalSubtree(aKids[i], bKids[i]) {
			return false
		}
	}
	return true
}
