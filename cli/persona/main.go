package main

import (
	"os"

	personacmder "github.com/papercomputeco/persona/cmd/persona"
)

func main() {
	cmd := personacmder.NewPersonaCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
