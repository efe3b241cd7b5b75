package main

import (
	"os"

	"docexd/internal/testctl"
)

func main() {
	os.Exit(testctl.Main())
}
