// Package main is the entry point for the gitreport CLI.
package main

import (
	"github.com/huangsam/gitreport/cmd"
	"github.com/huangsam/gitreport/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Error", err)
	}
}
