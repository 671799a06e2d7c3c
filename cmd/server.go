package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/bascanada/auth0logs/pkg/api"
	"github.com/bascanada/auth0logs/pkg/config"
	"github.com/bascanada/auth0logs/pkg/server"
	"github.com/spf13/cobra"
)

var (
	port int
	host string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve the logs of the configured contexts over HTTP",
	Long: `Starts a local read-only HTTP API over the contexts of the config file:

  GET /health
  GET /contexts
  GET /contexts/{id}
  GET /contexts/{id}/logs?page=&per_page=&q=&sort=&fields=&include_fields=&include_totals=&from=&take=
  GET /contexts/{id}/logs/{logId}

The config file is reloaded when it changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel(logger.Level)}))

		path := config.ResolveConfigPath(configPath)
		slogger.Info("loading configuration", "path", path)
		cfg, err := loadConfig(path)
		if err != nil {
			return err
		}

		s, err := server.NewServer(host, strconv.Itoa(port), cfg, path, slogger, api.OpenAPISpec)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}
		return s.Start()
	},
}

func slogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return slog.LevelInfo
	}
	return l
}

func init() {
	serverCmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	serverCmd.Flags().StringVarP(&host, "host", "H", "127.0.0.1", "Host to bind to")

	rootCmd.AddCommand(serverCmd)
}
