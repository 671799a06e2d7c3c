// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bascanada/auth0logs/pkg/config"
	"github.com/bascanada/auth0logs/pkg/management"
	"github.com/bascanada/auth0logs/pkg/ty"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactive wizard to add a tenant to the configuration file",
	Long: `Launch an interactive wizard to add an Auth0 tenant and a default context
to your configuration.

Example:
  auth0logs configure
  auth0logs configure -c /path/to/config.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runConfigWizard(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

type wizardAnswers struct {
	TenantName string
	Domain     string
	Token      string
	Telemetry  bool
	Query      string
}

func validateName(str string) error {
	if strings.TrimSpace(str) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.ContainsAny(str, " \t\n") {
		return fmt.Errorf("name cannot contain whitespace")
	}
	return nil
}

func validateDomain(str string) error {
	if strings.TrimSpace(str) == "" {
		return fmt.Errorf("domain cannot be empty")
	}
	if strings.Contains(str, "://") || strings.Contains(str, "/") {
		return fmt.Errorf("enter the bare domain, e.g. acme.eu.auth0.com")
	}
	return nil
}

func runConfigWizard(cfgPath string) error {
	answers := wizardAnswers{Telemetry: true}
	var confirm bool

	fmt.Println("Welcome to the auth0logs configuration wizard!")
	fmt.Println()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name for this tenant").
				Description("A friendly name to identify the tenant (e.g., prod, staging)").
				Placeholder("prod").
				Value(&answers.TenantName).
				Validate(validateName),

			huh.NewInput().
				Title("Auth0 domain").
				Placeholder("acme.eu.auth0.com").
				Value(&answers.Domain).
				Validate(validateDomain),

			huh.NewInput().
				Title("Management API token").
				Description("Needs the read:logs scope. Use ${AUTH0_TOKEN} to read it from the environment").
				Value(&answers.Token).
				EchoMode(huh.EchoModePassword),

			huh.NewConfirm().
				Title("Send telemetry header?").
				Value(&answers.Telemetry),

			huh.NewInput().
				Title("Default query (optional)").
				Description("Lucene query used by the default context, e.g. type:f").
				Value(&answers.Query),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg := buildWizardConfig(answers)

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to generate YAML: %w", err)
	}

	fmt.Println("\n" + strings.Repeat("─", 60))
	fmt.Println("Generated Configuration:")
	fmt.Println(strings.Repeat("─", 60))
	fmt.Println(string(out))
	fmt.Println(strings.Repeat("─", 60) + "\n")

	targetPath, err := config.DefaultConfigPath(cfgPath)
	if err != nil {
		return err
	}

	confirmForm := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save this configuration?").
				Description(fmt.Sprintf("Target: %s", targetPath)).
				Affirmative("Yes, save it!").
				Negative("No, cancel").
				Value(&confirm),
		),
	)

	if err := confirmForm.Run(); err != nil {
		return err
	}

	if !confirm {
		fmt.Println("Configuration not saved. Run 'auth0logs configure' again when ready.")
		return nil
	}

	if err := saveWizardConfig(targetPath, cfg); err != nil {
		return err
	}

	fmt.Printf("\nConfiguration saved to %s\n\n", targetPath)
	fmt.Println("You're all set! Try it now:")
	fmt.Printf("   auth0logs search -i %s\n\n", answers.TenantName)
	return nil
}

// buildWizardConfig turns the answers into a tenant and a context of the same name.
func buildWizardConfig(answers wizardAnswers) config.ContextConfig {
	options := ty.MI{
		"domain": strings.TrimSpace(answers.Domain),
		"token":  strings.TrimSpace(answers.Token),
	}
	if !answers.Telemetry {
		options["telemetry"] = false
	}

	search := management.SearchParams{}
	if q := strings.TrimSpace(answers.Query); q != "" {
		search.Q = q
		search.Sort = "date:-1"
	}

	return config.ContextConfig{
		Tenants: config.Tenants{
			answers.TenantName: {Options: options},
		},
		Contexts: config.Contexts{
			answers.TenantName: {
				Tenant:      answers.TenantName,
				Description: "created by auth0logs configure",
				Search:      search,
			},
		},
	}
}

// saveWizardConfig writes cfg to path, merged over the existing file when there is one.
func saveWizardConfig(path string, cfg config.ContextConfig) error {
	if existing, err := config.LoadContextConfig(path); err == nil {
		for k, v := range cfg.Tenants {
			existing.Tenants[k] = v
		}
		for k, v := range cfg.Contexts {
			existing.Contexts[k] = v
		}
		cfg = *existing
	} else if _, statErr := os.Stat(path); statErr == nil {
		return fmt.Errorf("refusing to overwrite %s which could not be loaded: %w", path, err)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to generate YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// the file holds tokens
	if err := os.WriteFile(path, out, 0600); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}
