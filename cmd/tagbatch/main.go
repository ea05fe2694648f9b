package main

import (
	"os"

	"github.com/randalmurphal/tagbatch/cmd/tagbatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
