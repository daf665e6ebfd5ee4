// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for bridgen.
//
// Usage:
//
//	go run . [flags]
//	./bridgen [flags]
//
// This launches the bridgen CLI. See --help for options.
package main

import (
	"log"
	"os"

	"github.com/bridgen/bridgen/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Printf("bridgen: %v", err)
		os.Exit(1)
	}
}
