package main

import "github.com/katalvlaran/lsgap/cmd"

func main() {
	cmd.Execute()
}
