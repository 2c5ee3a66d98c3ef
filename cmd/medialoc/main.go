package main

import (
	"os"

	"github.com/hashicorp-forge/medialoc/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
