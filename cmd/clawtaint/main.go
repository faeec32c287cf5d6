package main

import "github.com/ed-dc/ClawTaint/internal/cli"

func main() {
	cli.Execute()
}
