// Package main is the entry point for the esky CLI.
//
// This file bootstraps the application by invoking the command execution
// logic defined in the cmd package.
package main

import "github.com/ajxudir/esky/cmd"

// main initializes and runs the esky CLI.
//
// It delegates all command parsing and execution to the cmd package,
// which handles the versions, plan, update, and cleanup subcommands.
func main() {
	cmd.Execute()
}
