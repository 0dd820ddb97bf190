package main

import (
	"os"

	"github.com/example/dining-concierge/internal/interfaces/cli"
)

func main() {
	if err := cli.NewRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
