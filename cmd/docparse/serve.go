package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/antflydb/docparse/config"
	"github.com/antflydb/docparse/extraction"
	"github.com/antflydb/docparse/logging"
	"github.com/antflydb/docparse/pdfengine"
	"github.com/antflydb/docparse/server"
)

var (
	serveConfigPath string
	serveHost       string
	servePort       int
	serveLogLevel   string
	serveLogStyle   string
	serveMaxUpload  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the extraction HTTP service",
	Long: `Run the docparse HTTP service.

Settings resolve from flags, then environment variables (HOST, PORT,
LOG_LEVEL, LOG_STYLE, MAX_FILE_SIZE_MB), then the config file.

Examples:
  # Serve on the default port
  docparse serve

  # Custom port and debug logging
  docparse serve --port 8080 --log-level debug

  # With a config file
  docparse serve --config docparse.yaml
`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to configuration file")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen address (default 0.0.0.0)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (default 12330)")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	serveCmd.Flags().StringVar(&serveLogStyle, "log-style", "", "Log style: terminal, json, logfmt, noop")
	serveCmd.Flags().IntVar(&serveMaxUpload, "max-upload-mb", 0, "Maximum upload size in megabytes (default 50)")
}

// serveConfig resolves the effective configuration: flags win over
// environment variables, which win over the config file.
func serveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if serveConfigPath != "" {
		loaded, err := config.Load(serveConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	v := viper.New()
	v.AutomaticEnv()
	if s := v.GetString("HOST"); s != "" {
		cfg.Server.Host = s
	}
	if p := v.GetInt("PORT"); p != 0 {
		cfg.Server.Port = p
	}
	if s := v.GetString("LOG_LEVEL"); s != "" {
		cfg.Logging.Level = logging.Level(s)
	}
	if s := v.GetString("LOG_STYLE"); s != "" {
		cfg.Logging.Style = logging.Style(s)
	}
	if m := v.GetInt("MAX_FILE_SIZE_MB"); m != 0 {
		cfg.Server.MaxUploadMB = m
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = serveHost
	}
	if flags.Changed("port") {
		cfg.Server.Port = servePort
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logging.Level(serveLogLevel)
	}
	if flags.Changed("log-style") {
		cfg.Logging.Style = logging.Style(serveLogStyle)
	}
	if flags.Changed("max-upload-mb") {
		cfg.Server.MaxUploadMB = serveMaxUpload
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := serveConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(&cfg.Logging)
	engine := pdfengine.New(cfg.Engine)
	service := extraction.NewService(engine, logger)
	srv := server.New(cfg.Server, service, logger, version)

	logger.Info("docparse starting",
		zap.String("version", version),
		zap.String("engine", engine.Name()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("docparse shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return <-errCh
}
