// Command openapi lints and bundles OpenAPI descriptions.
package main

import (
	"os"

	"github.com/jirutka/openapi-cli/cmd/openapi/commands"
)

func main() {
	os.Exit(commands.Execute())
}
