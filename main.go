package main

import "github.com/agentic-research/rankcore/cmd"

func main() {
	cmd.Execute()
}
