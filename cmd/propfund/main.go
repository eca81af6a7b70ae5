package main

import (
	"os"

	"github.com/rustyeddy/propfund/cmd/propfund/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
