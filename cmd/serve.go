package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/catalogkit/catalog/internal/db/bunx"
	"github.com/catalogkit/catalog/internal/oauth"
	"github.com/catalogkit/catalog/internal/repository"
	"github.com/catalogkit/catalog/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalog server",
	Long:  `Starts the HTTP server with HTML pages, JSON endpoints, and auth routes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Connect to database
		db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		log.Printf("Connected to database")

		// Initialize repositories
		userRepo := repository.NewBunUserRepository(db)
		categoryRepo := repository.NewBunCategoryRepository(db)
		itemRepo := repository.NewBunItemRepository(db)

		// OAuth bridges stay nil when unconfigured; the router skips
		// their routes.
		var google *oauth.GoogleBridge
		if cfg.Google.Enabled() {
			google = oauth.NewGoogleBridge(cfg.Google.ClientID, cfg.Google.ClientSecret)
			log.Printf("Google login enabled")
		}
		var facebook *oauth.FacebookBridge
		if cfg.Facebook.Enabled() {
			facebook = oauth.NewFacebookBridge(cfg.Facebook.ClientID, cfg.Facebook.ClientSecret)
			log.Printf("Facebook login enabled")
		}

		srv := server.NewServer(server.Options{
			Cfg:        cfg,
			Users:      userRepo,
			Categories: categoryRepo,
			Items:      itemRepo,
			Google:     google,
			Facebook:   facebook,
		})
		r := server.NewRouter(srv)

		httpSrv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Start server in goroutine
		serverErrors := make(chan error, 1)
		go func() {
			log.Printf("Starting server on %s", cfg.ServerAddr)
			serverErrors <- httpSrv.ListenAndServe()
		}()

		// Wait for interrupt signal
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			log.Printf("Received signal %v, shutting down gracefully", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpSrv.Shutdown(ctx); err != nil {
				httpSrv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}

			log.Printf("Server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
