package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/spf13/cobra"

	"github.com/phaisonvs/portfolio-phaison-sub001/internal/config"
	"github.com/phaisonvs/portfolio-phaison-sub001/internal/preview"
	"github.com/phaisonvs/portfolio-phaison-sub001/internal/session"
	"github.com/phaisonvs/portfolio-phaison-sub001/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "portfolio",
		Short:        "Personal portfolio site with a featured projects carousel",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("PORTFOLIO_CONFIG"), "path to portfolio.toml")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "preview",
		Short: "Browse the featured projects carousel in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.Context(), configPath)
		},
	})
	return root
}

func runServe(parent context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	closer := setupLogging(cfg.LogFile)
	defer closer.Close()

	ctx, stop := signal.NotifyContext(contextOrBackground(parent), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openSeededStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	a, err := newApp(ctx, cfg, db)
	if err != nil {
		return err
	}
	go a.carousels.Run(ctx, time.Minute)
	go a.cleanupOldVisitorData(ctx)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newServer(a),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on http://localhost%s", cfg.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func runPreview(parent context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// The terminal belongs to the preview; logs only go to the file, if any.
	closer := setupFileLogging(cfg.LogFile)
	defer closer.Close()

	ctx := contextOrBackground(parent)
	db, err := openSeededStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	projects, err := db.ListProjects(ctx)
	if err != nil {
		return err
	}
	return preview.Run(ctx, projects, preview.Options{
		Breakpoints:      cfg.Preview.Breakpoints,
		Mode:             cfg.Carousel.Mode,
		DragThreshold:    cfg.Carousel.DragThreshold,
		AutoplayInterval: cfg.Preview.AutoplayInterval,
	})
}

func openSeededStore(ctx context.Context, path string) (*store.Store, error) {
	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	n, err := db.SeedProjects(ctx, seedProjects)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("seed projects: %w", err)
	}
	if n > 0 {
		log.Printf("Seeded %d projects", n)
	}
	return db, nil
}

func sessionOptions(cfg config.Config) session.Options {
	return session.Options{
		Breakpoints:      cfg.Carousel.Breakpoints,
		Mode:             cfg.Carousel.Mode,
		Transition:       cfg.Carousel.Transition,
		DragThreshold:    cfg.Carousel.DragThreshold,
		AutoplayInterval: cfg.Carousel.AutoplayInterval,
		Frame:            cfg.Carousel.Frame,
		TTL:              cfg.SessionTTL,
	}
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
