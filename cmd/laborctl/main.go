// Package main is the entry point of laborctl, the operator CLI for labor estimates.
package main

import (
	"os"

	"github.com/straye-as/staffing-api/cmd/laborctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
