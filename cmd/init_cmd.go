package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bascanada/auth0logs/pkg/config"
	"github.com/bascanada/auth0logs/pkg/management"
	"github.com/bascanada/auth0logs/pkg/ty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var format string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a sample config file in the current directory",
	Long: `Writes config.yaml (or config.json) with one tenant read from the
AUTH0_DOMAIN and AUTH0_TOKEN environment variables and two contexts.
Use 'configure' for an interactive setup.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fileName := "config." + format
		if _, err := os.Stat(fileName); err == nil {
			fmt.Fprintf(os.Stderr, "Error: %s already exists\n", fileName)
			os.Exit(1)
		}

		f, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write config file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		if err := writeSampleConfig(f, format); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("created config file: %s\n", fileName)
	},
}

func sampleConfig() config.ContextConfig {
	return config.ContextConfig{
		Tenants: config.Tenants{
			"default": {
				Description: "tenant of AUTH0_DOMAIN",
				Options: ty.MI{
					"domain":  "${AUTH0_DOMAIN}",
					"token":   "${AUTH0_TOKEN}",
					"timeout": "10s",
				},
			},
		},
		Contexts: config.Contexts{
			"recent": {
				Tenant:      "default",
				Description: "latest events first",
				Search:      management.SearchParams{Sort: "date:-1"},
			},
			"failed-logins": {
				Tenant:      "default",
				Description: "failed logins and wrong passwords",
				Search: management.SearchParams{
					Q:      "type:f OR type:fp OR type:fu",
					Sort:   "date:-1",
					Fields: []string{"date", "type", "user_name", "ip", "description"},
				},
			},
		},
	}
}

func writeSampleConfig(w io.Writer, format string) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case "json":
		data, err = json.MarshalIndent(sampleConfig(), "", "  ")
	case "yaml", "yml":
		data, err = yaml.Marshal(sampleConfig())
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	_, err = w.Write(data)
	return err
}

func init() {
	initCmd.Flags().StringVar(&format, "format", "yaml", "config file format (json or yaml)")
	rootCmd.AddCommand(initCmd)
}
