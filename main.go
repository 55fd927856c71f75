package main

import (
	"os"

	"github.com/deepalert/makegen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
