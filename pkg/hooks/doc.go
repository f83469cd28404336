// Package hooks provides thin state helpers built on the atom and disposer
// packages: boolean toggles, silent mutable refs, debounced setters, and an
// external-store binding for UI integration.
package hooks
