package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	chatservice "github.com/ViacheslavGolubkov/hotelscout/internal/chat/service"
	"github.com/ViacheslavGolubkov/hotelscout/internal/conf"
	"github.com/ViacheslavGolubkov/hotelscout/internal/data"
	historybiz "github.com/ViacheslavGolubkov/hotelscout/internal/history/biz"
	historydata "github.com/ViacheslavGolubkov/hotelscout/internal/history/data"
	hotelprovider "github.com/ViacheslavGolubkov/hotelscout/internal/hotels/provider"
	hoteltypes "github.com/ViacheslavGolubkov/hotelscout/internal/hotels/types"
	"github.com/ViacheslavGolubkov/hotelscout/internal/photos"
	"github.com/ViacheslavGolubkov/hotelscout/internal/pkg/logger"
	"github.com/ViacheslavGolubkov/hotelscout/internal/search"
	"github.com/ViacheslavGolubkov/hotelscout/internal/server"
	sessionbiz "github.com/ViacheslavGolubkov/hotelscout/internal/session/biz"
	sessiondata "github.com/ViacheslavGolubkov/hotelscout/internal/session/data"
	userbiz "github.com/ViacheslavGolubkov/hotelscout/internal/user/biz"
	userdata "github.com/ViacheslavGolubkov/hotelscout/internal/user/data"
)

var (
	configFile = flag.String("config", "config.yaml", "config file path")
)

func main() {
	flag.Parse()

	// Load configuration
	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger with config
	logConfig := &logger.Config{
		Level:            config.Log.Level,
		Format:           config.Log.Format,
		Output:           config.Log.Output,
		EnableCaller:     config.Log.EnableCaller,
		EnableStacktrace: config.Log.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		},
	}

	log, err := logger.New(logConfig)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("config loaded successfully")

	// Initialize data layer
	d, cleanup, err := data.NewData(config, log.Logger)
	if err != nil {
		log.Fatal("failed to initialize data layer", zap.Error(err))
	}
	defer cleanup()

	// Initialize provider gateway
	gateway, err := hotelprovider.NewClient(&hoteltypes.ProviderConfig{
		APIHost:    config.Provider.APIHost,
		APIKey:     config.Provider.APIKey,
		Locale:     config.Provider.Locale,
		Currency:   config.Provider.Currency,
		Timeout:    config.Provider.Timeout,
		MaxRetries: config.Provider.MaxRetries,
		RateLimit:  config.Provider.RateLimit,
	})
	if err != nil {
		log.Fatal("failed to initialize hotel provider", zap.Error(err))
	}

	// Initialize repositories
	userRepo := userdata.NewUserRepo(d.DB)
	historyRepo := historydata.NewHistoryRepo(d.DB)
	criteriaRepo := sessiondata.NewCriteriaRepo(d.RedisClient, &sessiondata.Config{
		TTL:         config.Session.TTL,
		LockTTL:     config.Session.LockTTL,
		LockTimeout: config.Session.LockTimeout,
	})

	// Initialize use cases
	userUseCase := userbiz.NewUserUseCase(userRepo)
	historyUseCase := historybiz.NewHistoryUseCase(historyRepo)
	searchService := search.NewService(gateway, log.Logger)
	photoUseCase := photos.NewPhotoUseCase(gateway)
	engine := sessionbiz.NewEngine(criteriaRepo, gateway, searchService, historyUseCase, log.Logger)

	// Initialize services
	chatService := chatservice.NewChatService(engine, historyUseCase, userUseCase, photoUseCase, log.Logger)

	// Initialize server
	httpServer := server.NewHTTPServer(config, log, chatService)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
