package main

import (
	"os"

	"github.com/pplanner/pplanner/internal/cli"
)

func main() {
	code := cli.Run(os.Args[1:])
	os.Exit(code)
}
