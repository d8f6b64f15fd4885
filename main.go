package main

import (
	"os"

	"github.com/Dshy007/milo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
