package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikogura/portfolio-client/pkg/devserver"
	"github.com/nikogura/portfolio-client/pkg/seed"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveAddr string

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local fixture backend",
	Long: `Serve the portfolio REST API locally from a seed file, storing contact
messages and visits in sqlite. Without server.seed_file in the config a built-in
sample portfolio is served.

Example:
  portfolio serve
  portfolio serve --addr :9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var data seed.Data
	if cfg.Server.SeedFile != "" {
		data, err = seed.Load(cfg.Server.SeedFile)
	} else {
		data, err = seed.Default()
	}
	if err != nil {
		err = errors.Wrap(err, "failed to load seed data")
		return err
	}

	var store *devserver.Store
	store, err = devserver.NewStore(cfg.Server.Database)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if !getVerbose() {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           devserver.New(data, store, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("fixture backend listening", zap.String("addr", addr), zap.String("database", cfg.Server.Database))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down fixture backend")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		err = errors.Wrap(err, "failed to shut down cleanly")
	}

	return err
}
