package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/wishsync/internal/buildinfo"
	"github.com/dmitrijs2005/wishsync/internal/flagx"
	"github.com/dmitrijs2005/wishsync/internal/logging"
	"github.com/dmitrijs2005/wishsync/internal/server"
	"github.com/dmitrijs2005/wishsync/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	if err := godotenv.Load(flagx.EnvFile(os.Args[1:], ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("env file: %v", err)
	}

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
