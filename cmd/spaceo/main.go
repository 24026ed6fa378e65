package main

import (
	"os"

	"github.com/bnema/spaceo-chat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
