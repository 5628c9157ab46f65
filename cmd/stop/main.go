package main

import (
	"fmt"
	"os"

	"github.com/oeed/stop/internal/cli"
)

func main() {
	err := cli.Run(cli.Config{
		Args:   os.Args[1:],
		Output: os.Stdout,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cli.ExitCode(err))
}
