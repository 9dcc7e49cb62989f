package main

import "github.com/forPelevin/shortgen/internal/cli"

func main() {
	cli.Main()
}
