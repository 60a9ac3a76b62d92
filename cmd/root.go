package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikogura/portfolio-client/pkg/analytics"
	"github.com/nikogura/portfolio-client/pkg/api"
	"github.com/nikogura/portfolio-client/pkg/config"
	"github.com/nikogura/portfolio-client/pkg/logging"
	"github.com/nikogura/portfolio-client/pkg/portfolio"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Browse and interact with a portfolio backend",
	Long: `portfolio is a terminal client for a personal portfolio site.

It loads the portfolio sections from the backend REST API, sends contact messages,
records page views, and can run a local fixture backend for development.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// errReported marks a failure the command has already shown to the user.
//
//nolint:gochecknoglobals // sentinel error
var errReported = errors.New("failure already reported")

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err unless the command already presented it.
func reportError(out io.Writer, err error) {
	if err == nil || errors.Is(err, errReported) {
		return
	}
	fmt.Fprintf(out, "Error: %s\n", err)
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.portfolio/config.json)")
}

// getVerbose returns the verbose flag value.
func getVerbose() (result bool) {
	result = verbose
	return result
}

// getConfigFile returns the config file path.
func getConfigFile() (result string) {
	result = configFile
	return result
}

// session is everything a client-side command needs, built from the loaded config.
type session struct {
	cfg     config.Config
	logger  *zap.Logger
	service *portfolio.Service
	tracker *analytics.Tracker
}

func loadConfigAndLogger() (cfg config.Config, logger *zap.Logger, err error) {
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return cfg, logger, err
	}

	level := cfg.LogLevel
	if getVerbose() {
		level = "debug"
	}

	logger, err = logging.New(level, cfg.LogFormat)
	if err != nil {
		err = errors.Wrap(err, "failed to create logger")
		return cfg, logger, err
	}

	return cfg, logger, err
}

func newSession() (rt session, err error) {
	rt.cfg, rt.logger, err = loadConfigAndLogger()
	if err != nil {
		return rt, err
	}

	var client *api.Client
	client, err = api.NewClient(rt.cfg.APIConfig(), rt.logger)
	if err != nil {
		err = errors.Wrap(err, "failed to create API client")
		return rt, err
	}

	rt.service = portfolio.NewService(client, rt.logger)
	rt.tracker = analytics.NewTracker(rt.service, rt.cfg.AnalyticsConfig(), rt.logger)

	return rt, err
}

// close flushes pending analytics and the logger.
func (rt session) close() {
	rt.tracker.Wait()
	_ = rt.logger.Sync()
}
