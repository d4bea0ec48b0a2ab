// Package main provides the BuildMeC command-line tool.
package main

import (
	"os"

	"github.com/buildmec/buildmec/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
