package main

import (
	"os"

	"github.com/arieostack/arieo-tools/internal/cli"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(cli.Run(cli.NewGatherCommand(cli.BuildVersion(version, commit, date))))
}
