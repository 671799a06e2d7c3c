package cmd

import (
	"errors"
	"io/fs"

	httpPkg "github.com/bascanada/auth0logs/pkg/http"
	"github.com/bascanada/auth0logs/pkg/log"
	"github.com/bascanada/auth0logs/pkg/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	contextID  string

	domain string
	token  string

	logger    log.MyLoggerOptions
	debugHttp bool
)

func onCommandStart(cmd *cobra.Command, args []string) {
	log.ConfigureMyLogger(&logger)
	httpPkg.SetDebug(debugHttp)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("error while loading .env file: %v", err)
	}
}

// loadConfigForCompletion loads the configuration for shell completion
// functions, returning the directive to use when it fails.
func loadConfigForCompletion(cmd *cobra.Command) (*config.ContextConfig, cobra.ShellCompDirective) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadContextConfig(cfgPath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return cfg, cobra.ShellCompDirectiveDefault
}
