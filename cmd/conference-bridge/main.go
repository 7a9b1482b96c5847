package main

import "github.com/angelajfisher/conference-bridge/internal/cli"

func main() {
	cli.Execute(false)
}
