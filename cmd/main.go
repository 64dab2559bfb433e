package main

import (
	"os"

	"countrypulse/internal/app"
)

// @title countrypulse API
// @version 1.0
// @description Mirrors country reference data and USD exchange rates, derives an estimated GDP figure and renders a top-5 summary image.
// @BasePath /
func main() {
	if err := app.Run(); err != nil {
		os.Exit(1)
	}
}
