package printer

import (
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/TylerBrock/colorjson"
	"github.com/bascanada/auth0logs/pkg/management"
)

func FormatDate(layout string, t time.Time) string {
	if t.IsZero() {
		return strings.Repeat("-", len(layout))
	}
	return t.Local().Format(layout)
}

// GetField returns a top level or dotted (user.name) value of the entry, "" when absent.
// Usage in template: {{Field . "client_name"}}
func GetField(entry management.LogEntry, key string) interface{} {
	var current interface{} = map[string]interface{}(entry)
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return ""
		}
		if current, ok = m[part]; !ok || current == nil {
			return ""
		}
	}
	return current
}

// KV renders the given keys as key=value, skipping absent ones.
func KV(entry management.LogEntry, keys ...string) string {
	if len(keys) == 0 {
		keys = make([]string, 0, len(entry))
		for k := range entry {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}
	items := make([]string, 0, len(keys))
	for _, k := range keys {
		if v := GetField(entry, k); v != "" {
			items = append(items, fmt.Sprintf("%s=%v", k, v))
		}
	}
	return strings.Join(items, " ")
}

// JSON renders a value as indented, colored when enabled, JSON.
func JSON(value interface{}) string {
	f := colorjson.NewFormatter()
	f.Indent = 2
	f.DisabledColor = !IsColorEnabled()
	s, err := f.Marshal(normalize(value))
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(s)
}

// colorjson only walks plain maps and slices.
func normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case management.LogEntry:
		return map[string]interface{}(v)
	case []management.LogEntry:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = map[string]interface{}(e)
		}
		return out
	default:
		return value
	}
}

func Truncate(n int, s string) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

func GetTemplateFunctionsMap() template.FuncMap {
	return template.FuncMap{
		"Format":      FormatDate,
		"Field":       GetField,
		"KV":          KV,
		"JSON":        JSON,
		"Type":        ColorType,
		"Description": management.TypeDescription,
		"Truncate":    Truncate,
		"Trim":        strings.TrimSpace,
	}
}
