// Package main provides the slotshift CLI: box and party storage driven by
// scripted drag gestures.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitUserError)
	}
}
