// Package main is the entry point for the acerun CLI.
//
// acerun runs the Ace Attorney game's test programs one after another,
// prints a pass/fail summary, and exits 0 only when every test passed.
package main

import "github.com/ajxudir/acerun/cmd"

func main() {
	cmd.Execute()
}
