package main

import (
	"os"

	"github.com/jaylee/storepulse/cmd/storepulse/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
