package main

import (
	"os"

	"github.com/GoBazaar/GoBazaar/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
