package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	if _, err := root.ExecuteC(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
