package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/angelajfisher/conference-bridge/internal/orchestrator"
)

type Config struct {
	DevMode      bool
	Orchestrator *orchestrator.Orchestrator
	BaseURL      string
	Port         string
	Secret       string // signs POST bodies; empty disables the check
	server       *http.Server
}

func Start(sc *Config) error {
	sc.server = &http.Server{
		Addr:              sc.Port,
		Handler:           http.TimeoutHandler(Handler(sc), 5*time.Second, "Oops, timed out!"),
		ReadTimeout:       1 * time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       30 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	log.Println("Conference bridge listening on", sc.Port)

	var err error
	if sc.DevMode {
		err = sc.server.ListenAndServe()
	} else {
		err = sc.server.ListenAndServeTLS(os.Getenv("SSL_CERT"), os.Getenv("SSL_KEY"))
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not start conference bridge listener: %w", err)
	}

	return nil
}

func Stop(sc *Config) error {
	if sc.server == nil {
		return nil
	}

	fmt.Print("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := sc.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("could not shutdown server gracefully: %w", err)
	}

	fmt.Print("Done!\n")
	return nil
}

// Handler routes the bridge endpoints under sc.BaseURL
func Handler(sc *Config) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("POST "+sc.BaseURL+"/events", logged(sc, sc.verified(sc.handleNamedEvent)))
	router.HandleFunc("POST "+sc.BaseURL+"/broadcasts", logged(sc, sc.verified(sc.handleBroadcast)))
	router.HandleFunc("GET "+sc.BaseURL+"/events/recent", logged(sc, sc.handleRecentEvents))
	router.HandleFunc("GET "+sc.BaseURL+"/kinds", logged(sc, handleKinds))
	router.HandleFunc("GET "+sc.BaseURL+"/conference", logged(sc, sc.handleConference))

	return router
}

func logged(sc *Config, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		next(w, r)

		elapsedTime := time.Since(startTime)
		log.Printf("%s '%s' in %s\n", r.Method, r.URL.Path[len(sc.BaseURL):], elapsedTime)
	}
}
