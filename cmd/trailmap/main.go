// Command trailmap browses, filters and bookmarks hiking trails from the
// command line and serves the same catalog over HTTP.
package main

import "github.com/mesh-intelligence/trailmap/internal/cli"

func main() {
	cli.Execute()
}
