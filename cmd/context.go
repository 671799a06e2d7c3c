package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/bascanada/auth0logs/pkg/config"
	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage configuration contexts",
}

var useContextCmd = &cobra.Command{
	Use:   "use [context-id]",
	Short: "Set the current active context",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, _ := config.LoadContextConfig(configPath)
		if cfg == nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return contextNames(cfg), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]

		cfg, err := loadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if _, ok := cfg.Contexts[id]; !ok {
			fmt.Fprintf(os.Stderr, "Error: context '%s' not found.\n", id)
			if similar := suggestSimilar(id, contextNames(cfg), 3); len(similar) > 0 {
				fmt.Fprintf(os.Stderr, "Did you mean: %v\n", similar)
			}
			os.Exit(1)
		}

		if err := config.SaveState(&config.State{CurrentContext: id}); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving state: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Switched to context \"%s\".\n", id)
	},
}

var listContextsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available contexts",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		printContexts(cmd, cfg)
	},
}

func printContexts(cmd *cobra.Command, cfg *config.ContextConfig) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CURRENT\tNAME\tTENANT\tDOMAIN\tDESCRIPTION")

	for _, name := range contextNames(cfg) {
		ctx := cfg.Contexts[name]
		prefix := " "
		if name == cfg.CurrentContext {
			prefix = "*"
		}
		tenantDomain := cfg.Tenants[ctx.Tenant].Options.GetString("domain")
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", prefix, name, ctx.Tenant, tenantDomain, ctx.Description)
	}
	w.Flush()
}

func init() {
	contextCmd.AddCommand(useContextCmd)
	contextCmd.AddCommand(listContextsCmd)
	rootCmd.AddCommand(contextCmd)
}
