// Package taskframe reconstructs logical call trees of in-flight
// goroutine computations that choose to report themselves.
//
// A computation wraps the body it wants traceable in a Frame and calls
// Run:
//
//	func handleRequest(ctx context.Context, req *Request) error {
//		return taskframe.New(taskframe.Capture()).Run(ctx, func(ctx context.Context) error {
//			return doWork(ctx, req)
//		})
//	}
//
// The first Frame on a goroutine's call path (one whose Run is invoked
// with no Frame already active on ctx) becomes a task root and is
// registered with the package; every Frame.Run nested under it becomes a
// child of whatever Frame is currently active, forming a tree that
// mirrors the call graph for exactly as long as each Run call is on the
// stack. TaskDumpTree renders every registered task's tree on demand, the
// way a debugger renders a native stack, but for logical, not OS, frames.
package taskframe
