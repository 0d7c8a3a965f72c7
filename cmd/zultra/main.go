// Command zultra is the command-line front end for the gozultra
// near-optimal DEFLATE encoder: file-based compression, an
// independent-decoder verification pass, an in-memory benchmark against
// other general-purpose compressors, and two self-test modes.
package main

import (
	"fmt"
	"os"

	"github.com/gozultra/zultra/cmd/zultra/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "zultra: %v\n", err)
		os.Exit(100)
	}
}
