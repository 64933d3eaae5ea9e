// Package main is the entry point for the Martedit CLI application.
// It rewrites SQL mart files from natural-language change requests.
package main

import (
	"martedit/cli/cmd"
)

// main is the entry point for the Martedit CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
