package main

import (
	"github.com/procline/error_service/config"
	"github.com/procline/error_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
