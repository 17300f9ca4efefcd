// Package trailmap carries the release version of the trailmap module.
package trailmap

// Version is the release version reported by the CLI and the server.
const Version = "0.1.0"
