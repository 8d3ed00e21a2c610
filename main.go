package main

import (
	"strconv"
	"videovault/library-api/app"
	"videovault/library-api/config"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	if err := config.Setup(); err != nil {
		panic(err)
	}

	router, err := app.NewRouter()
	if err != nil {
		zap.L().Fatal("Failed to build router", zap.Error(err))
	}

	port := viper.GetInt("host.port")
	zap.L().Info("Library API listening", zap.Int("port", port))

	if err := router.Run(":" + strconv.Itoa(port)); err != nil {
		zap.L().Fatal("Server stopped", zap.Error(err))
	}
}
