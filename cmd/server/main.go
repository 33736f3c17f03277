package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hjarnor/hjarnor/internal/config"
	"github.com/hjarnor/hjarnor/internal/es"
	"github.com/hjarnor/hjarnor/internal/events"
	"github.com/hjarnor/hjarnor/internal/handlers"
	"github.com/hjarnor/hjarnor/internal/logging"
	loggingmw "github.com/hjarnor/hjarnor/internal/middleware/logging"
	"github.com/hjarnor/hjarnor/internal/tokens"
	httpserver "github.com/hjarnor/hjarnor/internal/transport/http"
)

const brainfartIndex = "brainfart"

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	ctx := context.Background()
	db, err := config.InitDB(ctx, configuration)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	tokenService := &tokens.Service{
		Secret: []byte(configuration.JWT_SECRET),
		TTL:    configuration.TOKEN_TTL,
	}

	var producer *events.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = events.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	brainfartHandler := &handlers.BrainfartHandler{DB: db, Producer: producer, Index: brainfartIndex}
	searchHandler := &handlers.SearchHandler{Index: brainfartIndex}
	if configuration.ES_URL != "" {
		client, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init failed: %v", err)
		}
		brainfartHandler.ES = client
		searchHandler.ES = client
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		Tokens:           tokenService,
		AuthHandler:      &handlers.AuthHandler{DB: db, Tokens: tokenService, Producer: producer},
		BrainfartHandler: brainfartHandler,
		SearchHandler:    searchHandler,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.SERVER_PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
