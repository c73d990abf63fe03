package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"soil_monitor/internal/handlers"
	"soil_monitor/internal/logger"
	"soil_monitor/internal/mqtt"
	"soil_monitor/internal/repository"
	"soil_monitor/internal/repository/db"
	"soil_monitor/internal/server"
	"soil_monitor/internal/service"

	"github.com/spf13/viper"
)

const defaultSimTick = 10 * time.Second

func main() {
	// load config.yml first so the logger level can come from it
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(viper.GetString("log.level"))

	// open DB
	database, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(database)
	services := service.NewService(repos)
	apiHandler := handlers.NewHandler(services, log, viper.GetString("ingest.device_key"))

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// sample-data simulator (for deployments without a physical sensor)
	if viper.GetBool("simulator.enabled") {
		tick := viper.GetDuration("simulator.tick")
		if tick <= 0 {
			tick = defaultSimTick
		}
		go services.Simulator.Run(ctx, tick)
	}

	// MQTT ingestion channel, when a broker is configured
	startMQTT(ctx, services, log)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "soil.db")
		dbPath = "soil.db"
	}
	return db.InitDB(dbPath)
}

// startMQTT runs the ingestion subscriber when mqtt.broker is set.
func startMQTT(ctx context.Context, services *service.Service, log *logger.Logger) {
	broker := viper.GetString("mqtt.broker")
	if broker == "" {
		return
	}
	sub := mqtt.NewSubscriber(mqtt.Config{
		Broker:   broker,
		ClientID: viper.GetString("mqtt.client_id"),
		Topic:    viper.GetString("mqtt.topic"),
	}, services.Ingest, log)
	go func() {
		if err := sub.Start(ctx); err != nil {
			log.Errorw("mqtt subscriber stopped", "err", err)
		}
	}()
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
