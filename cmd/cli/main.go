package main

import (
	"github.com/mverne/openrealm/internal/cli"
)

func main() {
	cli.Execute()
}
