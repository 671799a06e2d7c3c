package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bascanada/auth0logs/pkg/config"
	"github.com/bascanada/auth0logs/pkg/log"
	"github.com/bascanada/auth0logs/pkg/management"
)

// errNoTenant is returned when no way to reach a tenant was given.
var errNoTenant = errors.New("no tenant selected: use --context, --domain/--token or set AUTH0_DOMAIN/AUTH0_TOKEN")

func loadConfig(path string) (*config.ContextConfig, error) {
	cfg, err := config.LoadContextConfig(path)
	if err != nil {
		errorMsg := "failed to load context config"
		switch {
		case errors.Is(err, config.ErrConfigParse):
			errorMsg = "invalid configuration file format"
		case errors.Is(err, config.ErrNoTenants):
			errorMsg = "configuration missing 'tenants' section"
		case errors.Is(err, config.ErrNoContexts):
			errorMsg = "configuration missing 'contexts' section"
		}
		return nil, fmt.Errorf("%s: %w", errorMsg, err)
	}
	return cfg, nil
}

// resolveLogs picks the tenant to talk to. Precedence: --context, then
// --domain/--token, then the current context of the config, then the
// AUTH0_DOMAIN/AUTH0_TOKEN environment.
func resolveLogs() (management.LogsAPI, management.SearchParams, error) {
	if contextID != "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return nil, management.SearchParams{}, err
		}
		return logsOfContext(cfg, contextID)
	}

	if domain != "" || token != "" {
		tenant, ok := config.TenantFromEnv(domain, token)
		if !ok {
			return nil, management.SearchParams{}, fmt.Errorf("both a domain and a token are needed, got domain=%q", domain)
		}
		return tenantLogs(tenant)
	}

	if cfg, err := config.LoadContextConfig(configPath); err == nil && cfg.CurrentContext != "" {
		log.Debug("using current context %s", cfg.CurrentContext)
		return logsOfContext(cfg, cfg.CurrentContext)
	} else if err != nil {
		log.Debug("no usable config: %v", err)
	}

	if tenant, ok := config.TenantFromEnv("", ""); ok {
		return tenantLogs(tenant)
	}

	return nil, management.SearchParams{}, errNoTenant
}

func tenantLogs(tenant config.Tenant) (management.LogsAPI, management.SearchParams, error) {
	logs, err := tenant.Logs()
	if err != nil {
		return nil, management.SearchParams{}, err
	}
	return logs, management.SearchParams{}, nil
}

func logsOfContext(cfg *config.ContextConfig, id string) (management.LogsAPI, management.SearchParams, error) {
	logs, search, err := cfg.Factory()(id)
	if err != nil {
		if errors.Is(err, config.ErrContextNotFound) {
			if similar := suggestSimilar(id, contextNames(cfg), 3); len(similar) > 0 {
				return nil, search, fmt.Errorf("%w (did you mean %s?)", err, strings.Join(similar, ", "))
			}
		}
		return nil, search, err
	}
	return logs, search, nil
}

func contextNames(cfg *config.ContextConfig) []string {
	names := make([]string, 0, len(cfg.Contexts))
	for name := range cfg.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// suggestSimilar returns up to limit candidates close to target, closest first.
// Candidates containing target rank before the others.
func suggestSimilar(target string, candidates []string, limit int) []string {
	type scored struct {
		name  string
		score int
	}

	var ranked []scored
	for _, c := range candidates {
		if c == target {
			continue
		}
		score := levenshtein(target, c)
		if strings.Contains(c, target) || strings.Contains(target, c) {
			score -= len(target)
		}
		if score <= len(target)/2+1 {
			ranked = append(ranked, scored{c, score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score < ranked[j].score
		}
		return ranked[i].name < ranked[j].name
	})

	out := []string{}
	for i := 0; i < len(ranked) && i < limit; i++ {
		out = append(out, ranked[i].name)
	}
	return out
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
