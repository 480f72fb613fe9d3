// pylv - NSO python-VM log viewer
//
// pylv reformats python-VM log output into aligned, colorized text, grouping
// multi-line messages into single records and converting timestamps to local
// time.
package main

import (
	"os"

	"github.com/mkarlsen/pylv/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
