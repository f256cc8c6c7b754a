package main

import "github.com/agentic-research/citydash/cmd"

func main() {
	cmd.Execute()
}
