package ty

import (
	"os"
	"regexp"
	"strings"
)

var variableRegex = regexp.MustCompile(`\$(\{([a-zA-Z_][a-zA-Z0-9_]*)(:-(.*?)?)?\}|([a-zA-Z_][a-zA-Z0-9_]*))`)

// Resolve expands ${VAR}, ${VAR:-default} and $VAR in input, looking first in
// vars then in the process environment. Unknown variables without a default
// are left untouched.
func Resolve(input string, vars map[string]string) string {
	return variableRegex.ReplaceAllStringFunc(input, func(v string) string {
		parts := strings.SplitN(v, ":-", 2)
		varName := strings.Trim(parts[0], "${}")

		if val, ok := vars[varName]; ok {
			return val
		}

		if val, ok := os.LookupEnv(varName); ok {
			return val
		}

		if len(parts) == 2 {
			return strings.TrimSuffix(parts[1], "}")
		}

		return v
	})
}

// Unresolved returns the names of the variable references still present in s.
func Unresolved(s string) []string {
	var names []string
	for _, m := range variableRegex.FindAllStringSubmatch(s, -1) {
		if m[2] != "" {
			names = append(names, m[2])
		} else {
			names = append(names, m[5])
		}
	}
	return names
}

func (ms MS) ResolveVariables() MS {
	return ms.ResolveVariablesWith(map[string]string{})
}

func (ms MS) ResolveVariablesWith(vars map[string]string) MS {
	msResolved := MS{}

	for k, v := range ms {
		msResolved[k] = Resolve(v, vars)
	}

	return msResolved
}

// ResolveVariables on MI resolves string values, other values are copied unchanged.
func (mi MI) ResolveVariables() MI {
	resolved := MI{}
	for k, v := range mi {
		switch vv := v.(type) {
		case string:
			resolved[k] = Resolve(vv, nil)
		default:
			resolved[k] = v
		}
	}
	return resolved
}
