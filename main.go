package main

import (
	"os"

	"github.com/pawfetch/pawfetch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
