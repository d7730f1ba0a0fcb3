package taskframe

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// outer spawns three concurrent copies of inner via a Group; while all
// three are parked, a reentrant dump taken from a fourth, distinctly
// located, observer child shows the three inner copies consolidated.
func TestGroupJoinConsolidation(t *testing.T) {
	outerLoc := Capture()
	innerLoc := Capture()
	observerLoc := Capture()

	release := make(chan struct{})
	started := make(chan struct{}, 3)

	var dump string
	err := New(outerLoc).Run(context.Background(), func(ctx context.Context) error {
		g, gctx := NewGroup(ctx)
		for i := 0; i < 3; i++ {
			g.Go(innerLoc, func(context.Context) error {
				started <- struct{}{}
				<-release
				return nil
			})
		}
		for i := 0; i < 3; i++ {
			<-started
		}

		if err := New(observerLoc).Run(gctx, func(ctx context.Context) error {
			dump = TaskDumpTree(ctx, true)
			close(release)
			return nil
		}); err != nil {
			return err
		}

		return g.Wait()
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := "╼ " + outerLoc.String() + "\n" +
		"  ├╼ " + observerLoc.String() + "\n" +
		"  └╼ 3x " + innerLoc.String() + "\n"
	if dump != want {
		t.Fatalf("got %q, want %q", dump, want)
	}
	if !strings.Contains(dump, "3x") {
		t.Fatalf("expected consolidated inner copies in %q", dump)
	}
}

// A child that observes its Group's context cancellation returns promptly;
// Wait reports the first real error, and the parent's own task is gone
// from the registry once Run returns.
func TestGroupPropagatesErrorAndCancels(t *testing.T) {
	outerLoc := Capture()
	childLoc := Capture()
	boom := errors.New("boom")

	err := New(outerLoc).Run(context.Background(), func(ctx context.Context) error {
		g, gctx := NewGroup(ctx)
		g.Go(childLoc, func(context.Context) error {
			return boom
		})
		g.Go(childLoc, func(context.Context) error {
			<-gctx.Done()
			return gctx.Err()
		})
		return g.Wait()
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want %v", err, boom)
	}

	if out := TaskDumpTree(context.Background(), true); out != "" {
		t.Fatalf("expected empty dump after group completion, got %q", out)
	}
}
