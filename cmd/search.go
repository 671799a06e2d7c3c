package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	httpPkg "github.com/bascanada/auth0logs/pkg/http"
	"github.com/bascanada/auth0logs/pkg/log"
	"github.com/bascanada/auth0logs/pkg/log/printer"
	"github.com/bascanada/auth0logs/pkg/management"
	"github.com/bascanada/auth0logs/pkg/query"
	"github.com/bascanada/auth0logs/pkg/ty"
	"github.com/spf13/cobra"
)

var (
	searchFlags management.SearchParams
	where       string
	jsonOutput  bool
	template    string
	colorOutput bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search log events",
	Long: `Search the log events of the tenant. Values of the context search are used
as defaults, flags override them.

Examples:
  auth0logs search -q 'type:f' --fields date,type,description --include-fields
  auth0logs search --from 90020240301 --take 100 --json
  auth0logs search -i prod-failures --page 2
  auth0logs search -w 'type=f AND (user_name~=admin OR NOT exists(connection))'`,
	Run: func(cmd *cobra.Command, args []string) {
		logs, defaults, err := resolveLogs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		params := searchParamsFromFlags(cmd, defaults)
		if err := applyWhere(&params, where); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := RunSearch(cmd.Context(), os.Stdout, logs, params, printerOptions(cmd)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// searchParamsFromFlags merges the flags the user changed over defaults.
func searchParamsFromFlags(cmd *cobra.Command, defaults management.SearchParams) management.SearchParams {
	overrides := management.SearchParams{
		Sort:   searchFlags.Sort,
		Q:      searchFlags.Q,
		Fields: searchFlags.Fields,
		From:   searchFlags.From,
	}

	flags := cmd.Flags()
	if flags.Changed("page") {
		overrides.Page = ty.OptWrap(searchFlags.Page.Value)
	}
	if flags.Changed("per-page") {
		overrides.PerPage = ty.OptWrap(searchFlags.PerPage.Value)
	}
	if flags.Changed("include-totals") {
		overrides.IncludeTotals = ty.OptWrap(searchFlags.IncludeTotals.Value)
	}
	if flags.Changed("include-fields") {
		overrides.IncludeFields = ty.OptWrap(searchFlags.IncludeFields.Value)
	}
	if flags.Changed("take") {
		overrides.Take = ty.OptWrap(searchFlags.Take.Value)
	}

	params := defaults
	params.MergeInto(&overrides)
	return params
}

// applyWhere ANDs the translation of a where expression into params.Q.
func applyWhere(params *management.SearchParams, expr string) error {
	q, err := query.Combine(params.Q, expr)
	if err != nil {
		return fmt.Errorf("invalid where expression: %w", err)
	}
	params.Q = q
	return nil
}

func printerOptions(cmd *cobra.Command) printer.Options {
	opts := printer.Options{JSON: jsonOutput, Template: template}
	if cmd.Flags().Changed("color") {
		c := colorOutput
		opts.Color = &c
	}
	return opts
}

// RunSearch performs one search and prints the page to out.
func RunSearch(ctx context.Context, out io.Writer, logs management.LogsAPI, params management.SearchParams, opts printer.Options) error {
	p, err := printer.New(out, opts)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}

	log.Debug("searching logs page=%d q=%q from=%q", params.Page.Or(0), params.Q, params.From)

	result, err := logs.Search(ctx, params)
	if err != nil {
		if httpPkg.IsUnauthorized(err) {
			return fmt.Errorf("token rejected by tenant: %w", err)
		}
		return fmt.Errorf("search failed: %w", err)
	}

	return p.PrintResult(result)
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the raw JSON answer")
	cmd.Flags().StringVar(&template, "template", "", "Go template executed for each entry, e.g. '{{.log_id}} {{Type .Type}} {{Field . \"description\"}}'")
	cmd.Flags().BoolVar(&colorOutput, "color", false, "force colors on or off (default: auto)")
}

func addSearchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&searchFlags.Page.Value, "page", 0, "page number, zero based")
	f.IntVar(&searchFlags.PerPage.Value, "per-page", management.DefaultPerPage, "amount of entries per page")
	f.StringVar(&searchFlags.Sort, "sort", "", "field to sort by, field:1 ascending or field:-1 descending (e.g. date:-1)")
	f.StringVarP(&searchFlags.Q, "query", "q", "", "query in Lucene query string syntax")
	f.StringVarP(&where, "where", "w", "", "filter expression translated to a query, e.g. 'type=f AND date>=2024-03-01', combined with --query")
	f.BoolVar(&searchFlags.IncludeTotals.Value, "include-totals", true, "include the query summary")
	f.StringSliceVar(&searchFlags.Fields, "fields", nil, "fields to include or exclude (see --include-fields), comma separated")
	f.BoolVar(&searchFlags.IncludeFields.Value, "include-fields", true, "include (true) or exclude (false) --fields")
	f.StringVar(&searchFlags.From, "from", "", "log event id to start retrieving logs from")
	f.IntVar(&searchFlags.Take.Value, "take", 0, "amount of entries to retrieve when using --from")
}

func init() {
	addSearchFlags(searchCmd)
	addOutputFlags(searchCmd)

	rootCmd.AddCommand(searchCmd)
}
