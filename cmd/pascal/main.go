package main

import (
	"os"

	"github.com/arnavsurve/pascal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
