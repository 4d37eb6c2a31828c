package main

import "github.com/Polymarket/polymarket-cli/cmd"

func main() {
	cmd.Execute()
}
