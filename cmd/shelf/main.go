// Shelf is a command-line tracker for a small library catalog.
package main

import "github.com/mesh-intelligence/shelf/internal/cli"

func main() {
	cli.Execute()
}
