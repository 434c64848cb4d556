package main

import (
	"fmt"
	"os"

	"github.com/mithrel/blockmark/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "blockmark:", err)
		os.Exit(1)
	}
}
