// Command tripctl is a command-line client for the trip planner API.
// Edits go through the optimistic activity store; itinerary views are built
// locally from the store snapshot.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
