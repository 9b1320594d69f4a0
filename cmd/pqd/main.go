package main

import (
	"fmt"
	"os"

	"github.com/pqd/pqd-sdk/pkg/cmd"
)

func main() {
	if err := cmd.NewRootCmd("pqd", "Product quality dashboard client").Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
