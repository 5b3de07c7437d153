package main

import (
	"schedulai/core/logger"
	"schedulai/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
	}
}
