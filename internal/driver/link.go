package driver

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// LinkObjects invokes the external linker over objFiles: the accumulated
// object file list, a freestanding-binary request under --nostd, and the
// output name, deriving the default extension (.exe with the standard
// prelude linked, .bin without) only when the caller didn't pick one
// explicitly with -o. It calls out to "cc" so the same driver works with
// whatever system toolchain is installed.
func LinkObjects(ctx context.Context, opts Options, objFiles []string) error {
	if len(objFiles) == 0 {
		return fmt.Errorf("no object files to link")
	}

	out := opts.Output
	if out == "" {
		out = "a"
	}
	if !opts.OutputSet {
		if opts.NoStd {
			out += ".bin"
		} else {
			out += ".exe"
		}
	}

	args := append([]string{"-o", out}, objFiles...)
	if opts.NoStd {
		args = append(args, "-nostdlib")
	}

	cmd := exec.CommandContext(ctx, "cc", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("linking %s: %w", out, err)
	}

	for _, f := range objFiles {
		_ = os.Remove(f)
	}
	return nil
}
