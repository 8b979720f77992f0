package main

import "lspmanager/internal/cli"

func main() {
	cli.Execute()
}
