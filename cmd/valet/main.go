// Command valet manages a catalogue of software licenses.
package main

import (
	"os"

	"github.com/roach88/valet/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
