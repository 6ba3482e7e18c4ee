package main

import (
	"os"

	"github.com/tagliamonte-labs/dsctbd/pkg/cli"
)

func main() {
	err := cli.Execute()
	if err != nil {
		os.Exit(1)
	}
	os.Exit(0)
}
