package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bascanada/auth0logs/pkg/management"
	"github.com/bascanada/auth0logs/pkg/ty"
)

// searchParamsFromQuery reads the same query parameters the Management API
// takes. Parameters that are absent stay unset so context defaults apply.
func searchParamsFromQuery(q url.Values) (management.SearchParams, error) {
	p := management.SearchParams{
		Sort: q.Get("sort"),
		Q:    q.Get("q"),
		From: q.Get("from"),
	}

	if v := q.Get("fields"); v != "" {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				p.Fields = append(p.Fields, f)
			}
		}
	}

	if err := optIntParam(q, "page", &p.Page); err != nil {
		return p, err
	}
	if err := optIntParam(q, "per_page", &p.PerPage); err != nil {
		return p, err
	}
	if err := optIntParam(q, "take", &p.Take); err != nil {
		return p, err
	}
	if err := optBoolParam(q, "include_totals", &p.IncludeTotals); err != nil {
		return p, err
	}
	if err := optBoolParam(q, "include_fields", &p.IncludeFields); err != nil {
		return p, err
	}

	return p, nil
}

func intParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		return def, fmt.Errorf("%s must be a positive integer, got %q", name, v)
	}
	return i, nil
}

func optIntParam(q url.Values, name string, into *ty.Opt[int]) error {
	if !q.Has(name) {
		return nil
	}
	i, err := intParam(q, name, 0)
	if err != nil {
		return err
	}
	into.S(i)
	return nil
}

func optBoolParam(q url.Values, name string, into *ty.Opt[bool]) error {
	if !q.Has(name) {
		return nil
	}
	b, err := strconv.ParseBool(q.Get(name))
	if err != nil {
		return fmt.Errorf("%s must be true or false, got %q", name, q.Get(name))
	}
	into.S(b)
	return nil
}
