package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/textveil/textveil/config"
	"github.com/textveil/textveil/pkg/anonymizer"
	"github.com/textveil/textveil/pkg/models"
	"github.com/textveil/textveil/pkg/server"
)

const ShutdownTimeout = 10 * time.Second

// run is the entrypoint for the textveil server
func run() {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error configuring textveil: %s", err)
	}

	handleCLIOptions(cfg)

	log.Infof("Starting textveil server version %s", config.VersionString)

	config.SetLogLevel(cfg)
	appState := NewAppState(cfg)

	srv := server.Create(appState)
	setupSignalHandler(srv)

	log.Infof("Listening on: %s", srv.Addr)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// NewAppState creates an AppState struct from the config file / ENV and
// constructs the engine instances shared across requests
func NewAppState(cfg *config.Config) *models.AppState {
	log.Info("Starting anonymizer engines")
	engine := anonymizer.NewEngine()

	return &models.AppState{
		Anonymizer:   engine,
		Deanonymizer: engine,
		Config:       cfg,
	}
}

// handleCLIOptions handles CLI options that don't require the server to run
func handleCLIOptions(cfg *config.Config) {
	if showVersion {
		fmt.Println(config.VersionString)
		os.Exit(0)
	}
	if dumpConfig {
		fmt.Printf("%+v\n", *cfg)
		os.Exit(0)
	}
}

// setupSignalHandler sets up a signal handler to gracefully shut the
// server down on termination
func setupSignalHandler(srv *http.Server) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalCh
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Errorf("Error shutting down server: %v", err)
		}
	}()
}
