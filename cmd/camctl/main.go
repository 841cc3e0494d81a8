package main

import (
	"os"

	"camerad/internal/camctl"
)

func main() {
	os.Exit(camctl.Main())
}
