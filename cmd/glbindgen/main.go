package main

import "glbindgen/internal/cli"

func main() {
	cli.Execute()
}
