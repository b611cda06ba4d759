package maincmd

import (
	"context"
	"fmt"
	"log"

	"github.com/mna/mainer"

	"github.com/saltlang/saltc/internal/driver"
	"github.com/saltlang/saltc/lang/irgen"
)

// fatalExitCode is returned for backend verifier failures; 0/1 are
// reserved for success and ordinary user error.
const fatalExitCode = mainer.ExitCode(2)

// Compile runs the full per-file pipeline over cmd's validated file list
// and, once an entry point was found, links whatever objects were produced
// via the external system linker, even when some files failed to compile.
func Compile(ctx context.Context, stdio mainer.Stdio, cmd *Cmd) mainer.ExitCode {
	logger := log.New(stdio.Stderr, "", 0)

	opts := driver.Options{
		DebugOutput:        cmd.Dbo,
		DebugOutputVerbose: cmd.Dbv,
		NoStd:              cmd.Nostd,
		Output:             cmd.Output,
		OutputSet:          cmd.flags["o"],
	}

	res, err := driver.Run(logger, opts, cmd.args)
	if err != nil {
		if fe, ok := err.(*irgen.FatalError); ok {
			fmt.Fprintln(stdio.Stderr, fe.Error())
			return fatalExitCode
		}
		fmt.Fprintln(stdio.Stderr, err)
		printSummary(stdio, false)
		return mainer.Failure
	}

	if len(res.ObjectFiles) > 0 {
		if err := driver.LinkObjects(ctx, opts, res.ObjectFiles); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			printSummary(stdio, false)
			return mainer.Failure
		}
	}

	printSummary(stdio, !res.HadFileErrors)
	if res.HadFileErrors {
		return mainer.Failure
	}
	return mainer.Success
}

// printSummary states at end-of-run whether any file failed.
func printSummary(stdio mainer.Stdio, ok bool) {
	if ok {
		fmt.Fprintln(stdio.Stdout, "build succeeded")
		return
	}
	fmt.Fprintln(stdio.Stdout, "build failed: one or more files did not compile")
}
