package main

import (
	"os"

	"github.com/gnolang/rangelint/cmd"
)

func main() {
	os.Exit(cmd.Run())
}
