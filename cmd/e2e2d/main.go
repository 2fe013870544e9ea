// Command e2e2d runs browser scenarios and writes their documentation.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/e2e2d/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
