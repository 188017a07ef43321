package main

import (
	"os"

	"github.com/orbitdesk/orbitdesk/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
