// Package launcher runs a command with a resolved environment.
//
// Prepare merges file variables with an explicit process environment
// snapshot and optionally expands $NAME references in the command line.
// Launcher.Run spawns the command with inherited stdio, forwards
// termination signals to it and reports its exit code.
package launcher
