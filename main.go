package main

import (
	"os"

	"github.com/scan-io-git/findingflow/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
