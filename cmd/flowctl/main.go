// Package main provides the entry point for the flowctl operator CLI.
package main

import (
	"github.com/yanqian/ai-flowgen/internal/cli"
)

func main() {
	cli.Execute()
}
