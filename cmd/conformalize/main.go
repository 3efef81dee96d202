package main

import (
	"os"

	"github.com/conformalize/conformalize/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
