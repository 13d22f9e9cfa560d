// Command docdex is the entry point for the docdex CLI.
package main

import (
	"os"

	"github.com/veridian-labs/docdex/internal/adapters/driving/cli"
)

// version is overridden at build time:
//
//	go build -ldflags "-X main.version=v1.2.3" ./cmd/docdex
var version = "dev"

func main() {
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
