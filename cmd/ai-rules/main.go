package main

import (
	"os"

	"github.com/ai-rules/ai-rules-generator/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
