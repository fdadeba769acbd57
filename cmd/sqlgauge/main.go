// Command sqlgauge validates SQL SELECT queries against a schema
// catalog before they ever reach a database.
package main

import (
	"os"

	"github.com/sqlgauge/sqlgauge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
