// Command saltc is the entry point of the Salt compiler driver.
package main

import (
	"os"

	"github.com/mna/mainer"

	"github.com/saltlang/saltc/internal/driver"
	"github.com/saltlang/saltc/internal/maincmd"
)

var (
	// placeholder values, replaced on build
	version   = "{v}" // must be N.N[.N]
	buildDate = "{d}" // must be YYYY-mm-DD
)

func main() {
	driver.InstallCrashHandler()
	c := maincmd.Cmd{BuildVersion: version, BuildDate: buildDate}
	os.Exit(int(c.Main(os.Args, mainer.CurrentStdio())))
}
