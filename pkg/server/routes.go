package server

import (
	"fmt"
	"net/http"
	"time"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/textveil/textveil/pkg/models"
)

const ReadHeaderTimeout = 5 * time.Second

// Create creates a new HTTP server with the given app state
func Create(appState *models.AppState) *http.Server {
	router := setupRouter(appState)
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", appState.Config.Server.Host, appState.Config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}
}

func setupRouter(appState *models.AppState) *chi.Mux {
	router := chi.NewRouter()
	router.Use(httpLogger.Logger("router", log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.RequestSize(appState.Config.Server.MaxRequestSize))
	router.Use(SendVersion)
	router.Use(middleware.Heartbeat("/healthz"))

	router.Get("/health", GetHealthHandler)
	router.Post("/anonymize", AnonymizeHandler(appState))
	router.Post("/deanonymize", DeanonymizeHandler(appState))
	router.Get("/anonymizers", GetAnonymizersHandler(appState))
	router.Get("/deanonymizers", GetDeanonymizersHandler(appState))

	return router
}
