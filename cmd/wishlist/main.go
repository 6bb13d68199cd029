package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/wishsync/internal/buildinfo"
	"github.com/dmitrijs2005/wishsync/internal/client/cli"
	"github.com/dmitrijs2005/wishsync/internal/client/client"
	"github.com/dmitrijs2005/wishsync/internal/client/config"
	"github.com/dmitrijs2005/wishsync/internal/client/models"
	"github.com/dmitrijs2005/wishsync/internal/client/query"
	"github.com/dmitrijs2005/wishsync/internal/client/repositories/keyvalue"
	"github.com/dmitrijs2005/wishsync/internal/client/services"
	"github.com/dmitrijs2005/wishsync/internal/client/session"
	"github.com/dmitrijs2005/wishsync/internal/client/storage"
	"github.com/dmitrijs2005/wishsync/internal/filex"
	"github.com/dmitrijs2005/wishsync/internal/flagx"
	"github.com/dmitrijs2005/wishsync/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	if err := godotenv.Load(flagx.EnvFile(os.Args[1:], ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("env file: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, "text", cfg.LogLevel)

	dbPath, err := filex.StorePath(cfg.DataDir, cfg.StoreFile)
	if err != nil {
		log.Fatalf("%v", err)
	}

	// A store that fails to open leaves the shopper with a working but
	// non-persistent session.
	store := storage.Unavailable()
	db, err := client.InitDatabase(ctx, dbPath)
	if err != nil {
		logger.Error(ctx, "local store unavailable", "path", dbPath, "error", err)
	} else {
		defer db.Close()
		store = storage.New(keyvalue.NewSQLiteRepository(db),
			storage.WithQuota(cfg.MaxValueBytes),
			storage.WithLogger(logger))
	}

	provider := session.NewProvider(store, session.WithLogger(logger))

	api := client.NewHTTPClient(cfg.APIBaseURL, provider,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithPingTimeout(cfg.PingTimeout),
		client.WithLogger(logger))

	svc := services.NewServices(services.Deps{
		Store:   store,
		Client:  api,
		Session: provider,
		Cache:   query.New(cfg.StaleTime, query.WithTerminal(client.IsTerminal)),
		Logger:  logger,
	}, models.Preferences{Language: cfg.Language, Currency: cfg.Currency})

	detach := svc.Attach(provider)
	defer detach()
	provider.Load(ctx)

	if db != nil {
		watcher := session.NewWatcher(provider, dbPath, logger)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Warn(ctx, "store watcher stopped", "error", err)
			}
		}()
	}

	app := cli.NewApp(cfg, svc, provider, logger)
	app.Run(ctx)

}
