// Package main is the entry point for the sheet CLI tool.
package main

import (
	"github.com/hargabyte/sheet/internal/cmd"
)

func main() {
	cmd.Execute()
}
