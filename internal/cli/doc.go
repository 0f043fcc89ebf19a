// Package cli holds the wiring shared by the calcchain commands: building a
// service from configuration, serving it over HTTP and printing chains.
package cli
