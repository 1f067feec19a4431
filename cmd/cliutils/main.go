package main

import "cli-utils/internal/cli"

func main() {
	cli.Execute()
}
