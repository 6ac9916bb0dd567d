package main

import (
	"os"

	"github.com/IronRon/Adaptive-Landing-AI/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
