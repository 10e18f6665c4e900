package main

import "github.com/mcoot/lfg/internal/cli"

func main() {
	cli.Execute()
}
