package main

import (
	"os"

	"github.com/rstms/fatvol/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
