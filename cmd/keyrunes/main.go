package main

import (
	"fmt"
	"os"

	"github.com/keyrunes/keyrunes-go/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "keyrunes: %v\n", err)
		os.Exit(1)
	}
}
