package main

import (
	"os"

	"github.com/vesta-ems/vesta/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
