package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lukau2357/ecc-go/pkg/api"
	"github.com/lukau2357/ecc-go/pkg/crypto/curve"
	"github.com/lukau2357/ecc-go/pkg/storage"
)

func main() {
	// Command line flags
	var (
		addr          = flag.String("addr", ":8080", "Server address")
		attackLimit   = flag.Int("attack-rate-limit", 10, "Max attack requests per minute per client")
		predictBlocks = flag.Int("predict-blocks", 5, "Future blocks predicted by the attack endpoint")
		primeTrials   = flag.Int("prime-trials", 40, "Miller-Rabin rounds for the primality endpoint")
		timeout       = flag.Duration("timeout", 30*time.Second, "Per-request timeout")
	)
	flag.Parse()

	log.Println("Starting ECC Demo API Server...")
	log.Printf("Supported curves: %v", curve.SupportedCurves())

	// Initialize storage (in-memory for demo)
	var store storage.Store = storage.NewMemoryStore()
	defer store.Close()
	log.Println("Initialized in-memory session storage")

	handlers := api.NewHandlers(store, api.Config{
		PredictBlocks: *predictBlocks,
		PrimeTrials:   *primeTrials,
	})

	router := api.NewRouter(handlers, api.RouterConfig{
		AttackRateLimit: *attackLimit,
		RequestTimeout:  *timeout,
	})

	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: *timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Serve until interrupted, then drain in-flight requests.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Listening on %s", *addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
