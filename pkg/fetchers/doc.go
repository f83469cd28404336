// Package fetchers provides disposer-aware load functions for common
// sources. Each fetcher returns a function suitable for passing to a load
// controller's Run or Go; cancellation flows through the invocation
// disposer's context.
package fetchers
