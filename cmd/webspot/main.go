package main

import (
	"log"

	"github.com/webspot/webspot/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ webspot failed to start: %v", err)
	}
}
