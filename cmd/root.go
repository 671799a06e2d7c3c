// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"fmt"
	"os"

	httpPkg "github.com/bascanada/auth0logs/pkg/http"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "auth0logs",
	Short: "Search and read the logs of an Auth0 tenant",
	Long: `Search and read the log events of an Auth0 tenant through the Management API v2.

A tenant is selected with --context (from the config file), with --domain/--token,
or with the AUTH0_DOMAIN/AUTH0_TOKEN environment variables (a .env file is read).`,
	PersistentPreRun: onCommandStart,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", httpPkg.ClientName, httpPkg.Version)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (json or yaml), defaults to $AUTH0LOGS_CONFIG or ~/.auth0logs/config.yaml")
	rootCmd.PersistentFlags().StringVarP(&contextID, "context", "i", "", "context id to use, defaults to the current context")
	rootCmd.PersistentFlags().StringVar(&domain, "domain", "", "Auth0 domain, e.g. acme.eu.auth0.com (overrides the config)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Management API v2 token (overrides the config)")
	rootCmd.PersistentFlags().StringVar(&logger.Path, "logging-path", "", "file to output logs of the application")
	rootCmd.PersistentFlags().StringVar(&logger.Level, "logging-level", "", "logging level to output INFO WARN ERROR DEBUG TRACE")
	rootCmd.PersistentFlags().BoolVar(&logger.Stdout, "logging-stdout", false, "output application log in the stdout")
	rootCmd.PersistentFlags().BoolVar(&debugHttp, "debug-http", false, "enable HTTP debug logs (prints urls, masked headers and bodies)")

	_ = rootCmd.RegisterFlagCompletionFunc("logging-level", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}, cobra.ShellCompDirectiveNoFileComp
	})

	_ = rootCmd.RegisterFlagCompletionFunc("context", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, directive := loadConfigForCompletion(cmd)
		if cfg == nil {
			return nil, directive
		}
		var suggestions []string
		for id, ctx := range cfg.Contexts {
			suggestions = append(suggestions, fmt.Sprintf("%s\t(%s)", id, ctx.Tenant))
		}
		return suggestions, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(versionCommand)
}
