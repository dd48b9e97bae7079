package main

import (
	"os"

	"github.com/Makepad-fr/clientdash/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
