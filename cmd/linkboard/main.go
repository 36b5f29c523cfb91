package main

import (
	"log"

	"github.com/patric-chuzhbe/linkboard/internal/app"
	"github.com/patric-chuzhbe/linkboard/internal/logger"
)

func main() {
	application, err := app.New()
	if err != nil {
		log.Fatalf("application init error: %v", err)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		logger.Log.Fatalln("application stopped with error:", err)
	}
}
