package main

import (
	"flag"
	"fmt"
	"os"

	"carmarket/cmd"
	"carmarket/config"
	"carmarket/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	app := cmd.NewBuilder(cfg).Build()
	if err := app.Run(); err != nil {
		logger.Error("Application exited with error", zap.Error(err))
		os.Exit(1)
	}
}
