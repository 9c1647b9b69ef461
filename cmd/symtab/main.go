package main

import (
	"os"

	"symtab/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
