// Package disposer provides a one-shot cancellation token bundled with an
// ordered cleanup registry.
//
// A Disposer represents a single generation of work. Cancellation is
// cooperative: disposing flips the token's aborted flag, cancels the
// associated context, and runs registered cleanups in reverse registration
// order. It never forcibly stops in-flight work.
//
//	d := disposer.New()
//	d.AddDispose(func() { conn.Close() })
//	go fetch(d.Context())
//	...
//	d.Dispose() // aborts the signal, cancels the context, closes conn
//
// Dispose is idempotent. Cleanups registered after disposal run synchronously
// and immediately, so a cleanup registered "too late" is never lost.
package disposer
