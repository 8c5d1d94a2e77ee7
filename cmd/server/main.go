package main

import (
	_ "github.com/eleven-am/zone-feedback/docs"
	"github.com/eleven-am/zone-feedback/internal/bootstrap"
)

// @title Zone Feedback API
// @version 1.0.0
// @description Occupant comfort feedback and voice dictation widget gateway

// @BasePath /api

func main() {
	bootstrap.Run()
}
