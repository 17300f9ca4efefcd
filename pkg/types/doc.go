// Package types defines the trail record, filter state, sort keys, pages,
// the key-value persistence port, configuration, and the standard errors
// shared by the trailmap packages.
package types
