package main

import "github.com/roessland/runstreak/cmd"

func main() {
	cmd.Execute()
}
