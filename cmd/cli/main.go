package main

import "github.com/jar-analysis/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
