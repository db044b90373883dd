package main

import (
	"os"

	"github.com/ablejobs/matchcore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
