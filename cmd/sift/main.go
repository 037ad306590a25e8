// Package main is the entry point for the sift CLI.
package main

import (
	"fmt"
	"os"

	"github.com/georgefloros/sift-go/cmd/sift/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
