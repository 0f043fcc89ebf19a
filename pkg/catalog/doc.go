// Package catalog holds the static configuration of guided calculator chains:
// the built-in defaults and loaders for YAML/JSON chain files.
package catalog
