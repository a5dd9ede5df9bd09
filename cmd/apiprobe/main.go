// apiprobe CLI - Test-data generation and execution for OpenAPI operations
package main

import (
	"github.com/apiprobe/apiprobe/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit
	cli.BuildDate = BuildDate
	cli.Execute()
}
