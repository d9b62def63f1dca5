package main

import (
	"fmt"
	"os"
)

func main() {
	root := NewRootCmd()

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "neoctl: %v\n", err)
		os.Exit(1)
	}
}
