package main

import (
	"os"

	"github.com/shristirwt/ten-days-of-voice-agents-2025/cli"
	_ "github.com/shristirwt/ten-days-of-voice-agents-2025/pkg/logger/autoload"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
