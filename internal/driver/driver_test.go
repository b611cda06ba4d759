package driver_test

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltlang/saltc/internal/driver"
)

func writeSrc(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunEmitsOneObjectPerFileAndFindsEntryPoint(t *testing.T) {
	dir := t.TempDir()
	main := writeSrc(t, dir, "main.sl", "fn main() -> int:\n\treturn 0\n")

	var logs log.Logger
	logs.SetOutput(os.Stderr)

	res, err := driver.Run(&logs, driver.Options{}, []string{main})
	require.NoError(t, err)
	assert.True(t, res.EntryPointSeen)
	require.Len(t, res.ObjectFiles, 1)
	assert.False(t, res.HadFileErrors)

	for _, f := range res.ObjectFiles {
		_, statErr := os.Stat(f)
		assert.NoError(t, statErr)
		os.Remove(f)
	}
}

// A file with a compile error produces no object, but does not stop
// subsequent files from compiling.
func TestRunContinuesAfterOneFileFails(t *testing.T) {
	dir := t.TempDir()
	bad := writeSrc(t, dir, "bad.sl", "fn f() -> int:\n\treturn g(1)\n")
	good := writeSrc(t, dir, "good.sl", "fn main() -> int:\n\treturn 0\n")

	var logs log.Logger
	logs.SetOutput(os.Stderr)

	res, err := driver.Run(&logs, driver.Options{}, []string{bad, good})
	require.NoError(t, err)
	assert.True(t, res.HadFileErrors)
	assert.True(t, res.EntryPointSeen)
	require.Len(t, res.ObjectFiles, 1)
	os.Remove(res.ObjectFiles[0])
}

func TestRunFailsWithoutEntryPoint(t *testing.T) {
	dir := t.TempDir()
	f := writeSrc(t, dir, "lib.sl", "fn helper() -> int:\n\treturn 1\n")

	var logs log.Logger
	logs.SetOutput(os.Stderr)

	res, err := driver.Run(&logs, driver.Options{}, []string{f})
	require.Error(t, err)
	for _, obj := range res.ObjectFiles {
		os.Remove(obj)
	}
}
