// Package load wraps user-supplied work so that only the most recently
// invoked call's result is reflected in shared state.
//
// A Controller advances a generation on every invocation: the previous
// generation's disposer is disposed (cancelling its context and running its
// cleanups) and a fresh one is minted. When a call settles, its result is
// committed to the controller's observable state only if its generation is
// still current; a superseded call's outcome is still delivered to the
// direct caller, never to the shared state.
//
//	c := load.NewController[User]()
//	p := c.Go(func(d *disposer.Disposer) (User, error) {
//	    return fetchUser(d.Context(), id)
//	})
//	user, err := p.Await(ctx)
//
// Run executes synchronously on the caller goroutine and returns the outcome
// directly; Go executes on a new goroutine and returns a Pending handle,
// also reachable via Loading to coalesce duplicate calls.
package load
