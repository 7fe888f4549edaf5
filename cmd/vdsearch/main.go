package main

import (
	"log"

	"github.com/vdsearch/vdsearch/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ vdsearch failed to start: %v", err)
	}
}
