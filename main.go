package main

import "mailkit/internal/cli"

func main() {
	cli.Execute()
}
