package main

import "github.com/angelajfisher/conference-bridge/internal/cli"

// Dev mode:
// Same commands as conference-bridge, but `serve` defaults to --dev

func main() {
	cli.Execute(true)
}
