// Command cc-ext classifies shell commands by risk and runs as a
// Claude Code PreToolUse hook.
package main

import (
	"fmt"
	"os"

	"github.com/cc-extention/cc-ext/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cc-ext: %v\n", err)
		os.Exit(1)
	}
}
