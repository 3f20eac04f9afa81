package main

import "github.com/vcppgen/vcppgen/cmd"

// main is the entry point of the vcppgen CLI application.
// It executes the root command which parses the project grammar and writes the .vcxproj.
func main() {
	cmd.Execute()
}
