package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ameyer/url-shortener/internal/config"
	"github.com/ameyer/url-shortener/internal/metrics"
	"github.com/ameyer/url-shortener/internal/repository/sqlite"
	"github.com/ameyer/url-shortener/internal/resolver"
	"github.com/ameyer/url-shortener/internal/service"
	"github.com/ameyer/url-shortener/internal/shortener"
	"github.com/ameyer/url-shortener/internal/transport/client"
	httpTransport "github.com/ameyer/url-shortener/internal/transport/http"
)

var rootCmd = &cobra.Command{
	Use:   "url-shortener",
	Short: "A URL shortening service written in Go",
	Long:  "A URL shortening service with a SQLite backend, per-visit analytics, and optional mapping expiration",
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the URL shortening server",
	RunE:  runServer,
}

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client commands for interacting with the server",
}

var createCmd = &cobra.Command{
	Use:   "create [URL]",
	Short: "Create a short URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreateURL,
}

var getCmd = &cobra.Command{
	Use:   "get [SHORT_CODE]",
	Short: "Get information about a short URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetURL,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [SHORT_CODE]",
	Short: "Delete a short URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteURL,
}

var analyticsCmd = &cobra.Command{
	Use:   "analytics [SHORT_CODE]",
	Short: "Show click analytics for a short URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalytics,
}

func init() {
	// Server command flags; each falls back to its environment variable
	// when the flag is not set explicitly.
	serverCmd.Flags().StringP("port", "p", "8080", "Server port (env: PORT)")
	serverCmd.Flags().String("base-url", "http://localhost:8080", "Public base URL for created short links (env: BASE_URL)")
	serverCmd.Flags().String("db-path", "urls.db", "Database file path (env: DB_PATH)")
	serverCmd.Flags().Int("code-length", shortener.DefaultCodeLength, "Length of generated short codes")
	serverCmd.Flags().Int("max-create-attempts", service.DefaultMaxCreateAttempts, "Creation retries on generated-code collisions")
	serverCmd.Flags().BoolP("verbose", "v", false, "Enable verbose request logging")

	// Client command flags
	clientCmd.PersistentFlags().StringP("server-url", "u", "http://localhost:8080", "Server URL")
	createCmd.Flags().String("alias", "", "Custom alias to use as the short code")
	createCmd.Flags().String("expires-at", "", "Expiration timestamp (RFC 3339)")

	clientCmd.AddCommand(createCmd, getCmd, deleteCmd, analyticsCmd)
	rootCmd.AddCommand(serverCmd, clientCmd)
}

// stringSetting resolves a flag value, falling back to envKey when the flag
// was left at its default.
func stringSetting(cmd *cobra.Command, flag, envKey string) string {
	value, _ := cmd.Flags().GetString(flag)
	if !cmd.Flags().Changed(flag) {
		if env := os.Getenv(envKey); env != "" {
			return env
		}
	}
	return value
}

func runServer(cmd *cobra.Command, args []string) error {
	// Optional .env file; flags win over the environment.
	_ = godotenv.Load()

	port := stringSetting(cmd, "port", "PORT")
	baseURL := stringSetting(cmd, "base-url", "BASE_URL")
	dbPath := stringSetting(cmd, "db-path", "DB_PATH")
	codeLength, _ := cmd.Flags().GetInt("code-length")
	maxCreateAttempts, _ := cmd.Flags().GetInt("max-create-attempts")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.New(port, baseURL, dbPath, codeLength, maxCreateAttempts, verbose)
	if err != nil {
		return fmt.Errorf("failed to create configuration: %w", err)
	}

	logger, err := newLogger(cfg.Logging.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting URL shortener server",
		zap.String("port", cfg.Server.Port),
		zap.String("base_url", cfg.Server.BaseURL),
		zap.String("db_path", cfg.Database.Path))

	// Initialize database
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize generator, metrics, and the resolution coordinator
	generator, err := shortener.NewGenerator(cfg.Shortener)
	if err != nil {
		return fmt.Errorf("failed to create shortener generator: %w", err)
	}
	logger.Info("using shortener generator", zap.String("type", generator.Type()))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	coordinator := resolver.New(repo, m, logger)
	urlShortener := service.NewURLShortener(repo, generator, coordinator, m, logger,
		cfg.Server.BaseURL, cfg.Service.MaxCreateAttempts)
	defer func() {
		if err := urlShortener.Close(); err != nil {
			logger.Error("error closing service", zap.Error(err))
		}
	}()

	// Create and start HTTP server
	server := httpTransport.NewServer(urlShortener, m, registry, logger, cfg.Server.Port, cfg.Logging.Verbose)

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-sigChan:
		logger.Info("received signal, shutting down gracefully", zap.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", zap.Error(err))
		}
	}

	logger.Info("server stopped")
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newClientCommands(cmd *cobra.Command) *client.Commands {
	serverURL, _ := cmd.Flags().GetString("server-url")
	return client.NewCommands(client.NewClient(serverURL))
}

func runCreateURL(cmd *cobra.Command, args []string) error {
	alias, _ := cmd.Flags().GetString("alias")
	expiresAt, _ := cmd.Flags().GetString("expires-at")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return newClientCommands(cmd).Create(ctx, args[0], alias, expiresAt)
}

func runGetURL(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return newClientCommands(cmd).Get(ctx, args[0])
}

func runDeleteURL(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return newClientCommands(cmd).Delete(ctx, args[0])
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return newClientCommands(cmd).Analytics(ctx, args[0])
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
