// Package maincmd implements the command-line front end: flag parsing and
// the exit-code contract for the `saltc [FILE.sl ...] [flags] [-o OUT]`
// surface, handing the real work off to internal/driver. There are no
// subcommands; every positional argument is a source path.
package maincmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mna/mainer"
)

const binName = "saltc"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<file>.sl ...] [<option>...] [-o <name>]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<file>.sl ...] [<option>...] [-o <name>]
       %[1]s -h|--help
       %[1]s -v|--version

Compiles each Salt (.sl) source file to an LLVM IR module, written in
textual form to a per-file intermediate file (not native object code),
then passes those files to the host "cc" to link a single executable.

Valid flag options are:
       --dbo                     Enable debug logging on the driver's debug
                                 streams.
       --dbv                     Enable verbose debug logging (implies
                                 --dbo).
       --nostd                   Skip the standard prelude and platform
                                 library linking; output extension becomes
                                 .bin instead of .exe.
       -o <name>                 Output name (default "a").
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
`, binName)
)

// Cmd is the compiler's option state plus the mainer plumbing that builds
// it from argv: one tagged field per flag, fed by a single
// mainer.Parser.Parse call at startup and read-only afterwards.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Dbo    bool   `flag:"dbo"`
	Dbv    bool   `flag:"dbv"`
	Nostd  bool   `flag:"nostd"`
	Output string `flag:"o"`

	args  []string
	flags map[string]bool
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

// Validate rejects missing inputs and any positional argument that does
// not end in .sl, before Main ever touches the driver.
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) == 0 {
		return fmt.Errorf("no input files")
	}
	for _, a := range c.args {
		if !strings.HasSuffix(a, ".sl") {
			return fmt.Errorf("%s: source file must end in .sl", a)
		}
	}
	return nil
}

// Main parses argv, then runs the compile-and-link pipeline over every
// validated input file. Exit codes: 0 success; 1 user error (bad file, no
// inputs, compile error, linker error); any other code is a backend
// verifier failure.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: strings.ToUpper(binName) + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.Failure
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	return Compile(ctx, stdio, c)
}
