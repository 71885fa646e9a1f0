package main

import (
	"os"

	"github.com/clive/forget-me-not/internal/cli"
)

var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
