package main

import (
	"os"

	"github.com/nmoreau/wavecap/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
