// Package main is the entry point for the Gomu CLI.
package main

import "gomu.dev/pkg/gomu/cmd"

func main() {
	cmd.Execute()
}
