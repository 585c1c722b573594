package main

import (
	"os"

	"atelierd/internal/atelierctl"
)

func main() {
	os.Exit(atelierctl.Main())
}
