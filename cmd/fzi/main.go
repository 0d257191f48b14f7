package main

import (
	"fmt"
	"os"

	"github.com/hbjs97/fzi/internal/cli"
)

func main() {
	cmd := cli.NewApp().NewRootCmd()
	if err := cmd.Execute(); err != nil {
		if !cli.IsExitStatus(err) {
			fmt.Fprintf(os.Stderr, "fzi: %v\n", err)
		}
		os.Exit(int(cli.MapExitCode(err)))
	}
}
