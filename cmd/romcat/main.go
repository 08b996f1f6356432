package main

import (
	"os"
	// NOTE: blank import of github.com/BrandonKowalski/certifiable (CA roots for
	// devices without a system trust store) removed: module unavailable via the
	// Go module proxy. See BUILD_FLAGS.json.
)

var version = "dev"

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}
