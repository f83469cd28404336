// Package atom provides an observable value cell that lives outside any UI
// rendering lifecycle.
//
// An Atom holds a value with synchronous change notification:
//
//	a := atom.New(0)
//	unsub := a.Sub(func(next, prev int) atom.Cleanup {
//	    fmt.Println(prev, "->", next)
//	    return nil
//	})
//	a.Set(1) // notifies synchronously, before Set returns
//	unsub()
//
// Set always reassigns the stored value and always notifies, even when the
// new value equals the old one. Equality deduplication is the responsibility
// of downstream consumers (see the hooks package's Store binding).
//
// Subscribers are notified in subscription order. A subscriber may itself
// call Set; the nested write runs its entire notification pass to completion
// before the outer pass resumes with the outer old/new pair. Subscribers
// added during a pass are not visited by that pass; subscribers removed
// during a pass are skipped.
//
// A panicking subscriber propagates out of Set and skips the remaining
// subscribers of that pass; the value stays committed. This fail-fast
// behavior is intentional and relied upon by callers.
package atom
