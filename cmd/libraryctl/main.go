package main

import (
	"fmt"
	"os"

	"github.com/tourabio/library-service/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand(cli.DefaultFactory)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
