package main

import "github.com/partywire/partywire/internal/cli"

func main() {
	cli.Execute()
}
