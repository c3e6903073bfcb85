package main

import (
	"github.com/humanbelnik/moviemingle/internal/app"
	"github.com/humanbelnik/moviemingle/internal/config"
)

//go:generate swag init -g cmd/app/main.go -o docs --parseInternal

// @title MovieMingle API
// @version 1.0
// @description Swipe through popular movies and keep the ones you like.
// @BasePath /api
func main() {
	app.Go(config.Load())
}
