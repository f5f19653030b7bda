// Command repsql is a SQL client for BIP-style report endpoints.
package main

import (
	"os"

	"github.com/repsql/repsql/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
