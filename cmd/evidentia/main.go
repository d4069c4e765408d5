// The evidentia CLI: local transcript scoring and division prediction.
package main

import (
	"os"

	"github.com/x-ordo/evidentia/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
