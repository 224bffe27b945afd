// main.go
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"book-your-show/cmd"
	"book-your-show/internal/data/repository"
	"book-your-show/internal/inventory"
	"book-your-show/internal/usecase"
	"book-your-show/internal/wire"
	"book-your-show/internal/worker"
	"book-your-show/pkg/cache"
	"book-your-show/pkg/database"
	"book-your-show/pkg/queue"
	"book-your-show/pkg/utils"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Seat state authority, fed from the durable seat records
	store := inventory.NewStore(repos.Seat, logger)

	// Redis seat snapshot cache (optional, degrades to direct reads)
	redisClient := cache.NewRedisClient(config.Redis)
	seatCache := cache.NewSeatCache(
		redisClient,
		time.Duration(config.Redis.SeatsTTLSec)*time.Second,
		logger,
	)

	// Settlement event publisher (optional, settled events are best-effort)
	publisher, err := queue.NewPublisher(config.Queue, logger)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, settled events disabled", zap.Error(err))
		publisher = queue.NewNopPublisher()
	}
	defer publisher.Close()

	// Payment provider client
	provider := usecase.NewHTTPProvider(config.Provider, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, store, seatCache, publisher, provider, config, logger)

	// Start the expiry reaper
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reaper := worker.NewReaper(
		repos.Reservation,
		repos.Intent,
		app.Service.Reservation,
		time.Duration(config.Engine.ReaperIntervalSec)*time.Second,
		time.Duration(config.Engine.GraceSeconds)*time.Second,
		logger,
	)
	go reaper.Start(ctx)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
