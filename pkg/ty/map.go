package ty

import (
	"fmt"
	"sort"
)

// MI is a shorthand for map[string]interface{}
type MI map[string]interface{}

// MS is a shorthand for map[string]string
type MS map[string]string

// Merge merges another MI into this one.
func (mi *MI) Merge(mi2 MI) {
	for k, v := range mi2 {
		(*mi)[k] = v
	}
}

// Merge merges another MS into this one.
func (ms *MS) Merge(ms2 MS) {
	for k, v := range ms2 {
		(*ms)[k] = v
	}
}

// GetString returns the value as a string if it exists, otherwise empty string.
// Non string values are formatted with fmt.
func (mi MI) GetString(key string) string {
	v, ok := mi[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// GetOr returns the value for the key if it exists, otherwise the default value.
func (mi MI) GetOr(key string, def interface{}) interface{} {
	if v, b := mi[key]; b {
		return v
	}
	return def
}

// Keys returns the sorted keys of the map.
func (ms MS) Keys() []string {
	keys := make([]string, 0, len(ms))
	for k := range ms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SortedKeys returns the keys of any string keyed map in order.
func SortedKeys[T interface{}](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
