// Package main is the entry point for the vbstats CLI tool, which reconstructs
// volleyball playing intervals from substitution sheets and computes
// plus-minus statistics per set, game and season.
package main

import "github.com/JLammering/Volleyball-Stats/cmd"

func main() {
	cmd.Execute()
}
