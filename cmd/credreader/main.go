package main

import (
	"os"

	"github.com/Navdevl/chris-cred-reader/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
