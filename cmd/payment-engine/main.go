// Package main is the entry point for the payment-engine CLI.
package main

import (
	"os"

	"github.com/rustworthy/payment-engine/cmd/payment-engine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
