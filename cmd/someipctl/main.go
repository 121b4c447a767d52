// Command someipctl loads FIBEX service descriptions, builds their SOME/IP
// codec trees, and inspects or decodes payloads against them.
package main

import (
	"os"

	"github.com/marmos91/someip/cmd/someipctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.PrintErr("error: %s", err)
		os.Exit(1)
	}
}
