// main is the entry point for the bidscope CLI.
package main

import (
	"fmt"
	"os"

	"github.com/sahajm/bidscope/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
