// Package servecmder provides the serve command that runs the pairwise API.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/pairwise/api"
	"github.com/papercomputeco/pairwise/api/worker"
	"github.com/papercomputeco/pairwise/pkg/config"
	"github.com/papercomputeco/pairwise/pkg/llm/provider/openai"
	"github.com/papercomputeco/pairwise/pkg/logger"
	"github.com/papercomputeco/pairwise/pkg/relay"
	"github.com/papercomputeco/pairwise/pkg/session"
	"github.com/papercomputeco/pairwise/pkg/storage/csvfile"
	"github.com/papercomputeco/pairwise/pkg/telemetry"
)

type serveCommander struct {
	flags config.FlagSet

	listen      string
	upstream    string
	timeout     time.Duration
	weakModel   string
	strongModel string
	csvPath     string

	debug     bool
	jsonLogs  bool
	logFile   string
	traceFile string
	logger    *slog.Logger
}

var serveFlagKeys = []string{
	config.FlagListen,
	config.FlagUpstream,
	config.FlagTimeout,
	config.FlagWeakModel,
	config.FlagStrongModel,
	config.FlagCSVPath,
}

const serveLongDesc string = `Run the pairwise API server.

Endpoints:
  POST /generate            Answer a prompt with both the weak and strong model
  POST /nudge               Answer a prompt with the strong model only
  POST /save_conversation   Append an evaluated session to the CSV log
  GET  /ping                Health check

Settings come from flags, PAIRWISE_* environment variables, config.toml and
built-in defaults, in that order. The upstream API key is only read from
PAIRWISE_UPSTREAM_API_KEY or OPENAI_API_KEY.`

const serveShortDesc string = "Run the pairwise API server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{flags: config.ServeFlags}
	var v *viper.Viper

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			var err error
			v, err = config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, cmder.flags, serveFlagKeys)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			cmder.listen = v.GetString("server.listen")
			cmder.upstream = v.GetString("upstream.base_url")
			cmder.timeout = v.GetDuration("upstream.timeout")
			cmder.weakModel = v.GetString("models.weak")
			cmder.strongModel = v.GetString("models.strong")
			cmder.csvPath = v.GetString("log.csv_path")

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, cmder.flags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, cmder.flags, config.FlagUpstream, &cmder.upstream)
	config.AddDurationFlag(cmd, cmder.flags, config.FlagTimeout, &cmder.timeout)
	config.AddStringFlag(cmd, cmder.flags, config.FlagWeakModel, &cmder.weakModel)
	config.AddStringFlag(cmd, cmder.flags, config.FlagStrongModel, &cmder.strongModel)
	config.AddStringFlag(cmd, cmder.flags, config.FlagCSVPath, &cmder.csvPath)

	cmd.Flags().BoolVar(&cmder.jsonLogs, "json-logs", false, "Write logs as JSON instead of colorized text")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also append JSON logs to this file")
	cmd.Flags().StringVar(&cmder.traceFile, "trace-file", "", "Write upstream call traces as JSON to this file")

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	closeLog, err := c.setupLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	closeTrace, err := c.setupTracing()
	if err != nil {
		return err
	}
	defer closeTrace()

	client, err := openai.New(openai.Config{
		APIKey:  openai.APIKeyFromEnv(),
		BaseURL: c.upstream,
		Timeout: c.timeout,
	})
	if err != nil {
		if errors.Is(err, openai.ErrMissingAPIKey) {
			return fmt.Errorf("%w: set %s or %s", err, openai.APIKeyEnvVars[0], openai.APIKeyEnvVars[1])
		}
		return fmt.Errorf("creating upstream client: %w", err)
	}

	r := relay.New(client, relay.Models{Weak: c.weakModel, Strong: c.strongModel}, c.logger)

	driver := csvfile.NewDriver(c.csvPath)
	defer driver.Close()

	pool, err := worker.NewPool(&worker.Config{
		Driver: driver,
		Logger: c.logger,
	})
	if err != nil {
		return fmt.Errorf("could not create worker pool: %w", err)
	}

	server := api.NewServer(api.Config{ListenAddr: c.listen}, r, pool, session.NewSummarizer(), c.logger)

	c.logger.Info("conversation log configured",
		"path", driver.Path(),
		"upstream", c.upstream,
		"timeout", c.timeout,
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	var runErr error
	select {
	case runErr = <-errChan:
	case <-ctx.Done():
		c.logger.Info("received signal, shutting down")
	}

	if err := server.Shutdown(); err != nil {
		c.logger.Error("shutting down API server", "error", err)
	}
	// in-flight saves finish before the log is closed
	pool.Close()

	return runErr
}

func (c *serveCommander) setupLogger() (func(), error) {
	console := logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(!c.jsonLogs),
		logger.WithJSON(c.jsonLogs),
		logger.WithWriter(os.Stderr),
	)

	if c.logFile == "" {
		c.logger = console
		return func() {}, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	file := logger.New(
		logger.WithDebug(c.debug),
		logger.WithJSON(true),
		logger.WithWriter(f),
	)
	c.logger = logger.Multi(console, file)

	return func() { f.Close() }, nil
}

func (c *serveCommander) setupTracing() (func(), error) {
	if c.traceFile == "" {
		return func() {}, nil
	}

	f, err := os.OpenFile(c.traceFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}

	shutdown, err := telemetry.Setup(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			c.logger.Error("flushing traces", "error", err)
		}
		f.Close()
	}, nil
}
