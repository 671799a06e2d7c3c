package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	httpPkg "github.com/bascanada/auth0logs/pkg/http"
	"github.com/bascanada/auth0logs/pkg/log/printer"
	"github.com/bascanada/auth0logs/pkg/management"
	"github.com/bascanada/auth0logs/pkg/ty"
	"github.com/spf13/cobra"
)

var copyToClipboard bool

// clipboardWrite is swapped in tests.
var clipboardWrite = clipboard.WriteAll

var getCmd = &cobra.Command{
	Use:   "get <log-id>",
	Short: "Print a single log event",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logs, _, err := resolveLogs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := RunGet(cmd.Context(), os.Stdout, logs, args[0], printerOptions(cmd), copyToClipboard); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// RunGet fetches one log event and prints it, optionally copying its JSON to the clipboard.
func RunGet(ctx context.Context, out io.Writer, logs management.LogsAPI, id string, opts printer.Options, copyJSON bool) error {
	p, err := printer.New(out, opts)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}

	entry, err := logs.Get(ctx, id)
	if err != nil {
		if httpPkg.IsNotFound(err) {
			return fmt.Errorf("log %s not found: %w", id, err)
		}
		if httpPkg.IsUnauthorized(err) {
			return fmt.Errorf("token rejected by tenant: %w", err)
		}
		return fmt.Errorf("get failed: %w", err)
	}

	if err := p.PrintEntry(entry); err != nil {
		return err
	}

	if copyJSON {
		s, err := ty.ToIndentedJSON(entry)
		if err != nil {
			return err
		}
		if err := clipboardWrite(s); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
	}
	return nil
}

func init() {
	getCmd.Flags().BoolVar(&copyToClipboard, "copy", false, "copy the JSON of the log event to the clipboard")
	getCmd.Flags().BoolVar(&colorOutput, "color", false, "force colors on or off (default: auto)")
	rootCmd.AddCommand(getCmd)
}
