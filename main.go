package main

import (
	"os"

	"github.com/webshield/webshield/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
