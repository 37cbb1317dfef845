package main

import (
	"os"

	"bigpicture/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
