package main

import (
	"os"

	"github.com/ht101996/tomahawk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
