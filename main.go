package main

import (
	"os"

	"github.com/fleetops/ringrail/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
