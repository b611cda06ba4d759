package driver

// InstallCrashHandler is the one hook a deployed driver is expected to wire
// up before calling Run: a platform-specific handler that turns an OS-level
// access violation into a readable fatal message. The default is a no-op;
// cmd/saltc's main calls it unconditionally before building
// internal/maincmd.Cmd, so a caller that wants real crash reporting only
// has to reassign this var before main runs.
var InstallCrashHandler func() = func() {}
