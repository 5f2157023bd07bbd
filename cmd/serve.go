package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/killallgit/paperreel-api/api"
	"github.com/killallgit/paperreel-api/api/types"
	"github.com/killallgit/paperreel-api/internal/database"
	"github.com/killallgit/paperreel-api/internal/services/annotations"
	"github.com/killallgit/paperreel-api/internal/services/cache"
	"github.com/killallgit/paperreel-api/internal/services/documents"
	"github.com/killallgit/paperreel-api/internal/services/sessions"
	"github.com/killallgit/paperreel-api/pkg/config"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the PaperReel API server with the configured settings.

The server migrates the database, then serves documents, annotations and
authoring sessions until interrupted.

Example:
  paperreel-api serve
  paperreel-api serve --port 9090
  paperreel-api serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.Database, log.Named("database"))
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	if err := db.Migrate(); err != nil {
		return err
	}

	deps := buildDependencies(cfg, db, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps.SessionManager.Start(ctx)
	defer deps.SessionManager.Stop()

	srv := api.NewServer(cfg, deps)
	if err := srv.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down server")
	case runErr = <-serverErr:
		if runErr != nil {
			log.Error("server stopped", zap.Error(runErr))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		runErr = multierr.Append(runErr, fmt.Errorf("server forced to shutdown: %w", shutdownErr))
	}

	log.Info("server stopped", zap.Int("open_sessions", deps.SessionManager.Len()))
	return runErr
}

// buildDependencies wires the services the handlers use.
func buildDependencies(cfg *config.Config, db *database.DB, log *zap.Logger) *types.Dependencies {
	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewMemoryCache(cfg.Cache.MaxSizeMB)
	}

	docs := documents.NewService(documents.NewRepository(db.DB), documents.Options{
		MediaDir: cfg.Storage.MediaDir,
		Cache:    c,
		CacheTTL: cfg.Cache.DefaultTTL,
		Logger:   log,
	})
	anns := annotations.NewService(annotations.NewRepository(db.DB), log)
	manager := sessions.NewManager(docs, anns, sessions.Options{
		IdleTimeout:     cfg.Sessions.IdleTimeout,
		CleanupInterval: cfg.Sessions.CleanupInterval,
		MaxSessions:     cfg.Sessions.MaxSessions,
		Logger:          log,
	})

	return &types.Dependencies{
		DB:                db,
		Cache:             c,
		DocumentService:   docs,
		AnnotationService: anns,
		SessionManager:    manager,
		Logger:            log,
		Version:           Version,
	}
}
