package main

import (
	"fmt"
	"os"

	"github.com/beanboi7/chyp-8/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
