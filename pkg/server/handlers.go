package server

import (
	"net/http"

	"github.com/bascanada/auth0logs/pkg/management"
	"github.com/bascanada/auth0logs/pkg/query"
	"github.com/bascanada/auth0logs/pkg/ty"
)

// ContextsResponse is the body of /contexts.
type ContextsResponse struct {
	Contexts []ContextInfo `json:"contexts"`
	Current  string        `json:"current,omitempty"`
}

type ContextInfo struct {
	ID          string                  `json:"id"`
	Tenant      string                  `json:"tenant"`
	Domain      string                  `json:"domain"`
	Description string                  `json:"description,omitempty"`
	Search      management.SearchParams `json:"search"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) openapiHandler(w http.ResponseWriter, r *http.Request) {
	if len(s.openapiSpec) == 0 {
		s.writeError(w, http.StatusNotFound, ErrCodeNotFound, "no OpenAPI document")
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(s.openapiSpec)
}

func (s *Server) contextsHandler(w http.ResponseWriter, r *http.Request) {
	cfg, _ := s.current()

	resp := ContextsResponse{Contexts: []ContextInfo{}, Current: cfg.CurrentContext}
	for _, id := range ty.SortedKeys(cfg.Contexts) {
		c := cfg.Contexts[id]
		resp.Contexts = append(resp.Contexts, ContextInfo{
			ID:          id,
			Tenant:      c.Tenant,
			Domain:      cfg.Tenants[c.Tenant].Options.GetString("domain"),
			Description: c.Description,
			Search:      c.Search,
		})
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) contextHandler(w http.ResponseWriter, r *http.Request) {
	cfg, _ := s.current()
	id := r.PathValue("id")

	c, ok := cfg.Contexts[id]
	if !ok {
		s.writeError(w, http.StatusNotFound, ErrCodeContextNotFound, "context '"+id+"' not found")
		return
	}

	s.writeJSON(w, http.StatusOK, ContextInfo{
		ID:          id,
		Tenant:      c.Tenant,
		Domain:      cfg.Tenants[c.Tenant].Options.GetString("domain"),
		Description: c.Description,
		Search:      c.Search,
	})
}

func (s *Server) searchLogsHandler(w http.ResponseWriter, r *http.Request) {
	_, factory := s.current()

	overrides, err := searchParamsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	logs, params, err := factory(r.PathValue("id"))
	if err != nil {
		s.writeBackendError(w, err)
		return
	}
	params.MergeInto(&overrides)

	// where narrows the merged query, context q included
	if params.Q, err = query.Combine(params.Q, r.URL.Query().Get("where")); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrCodeValidationError, "where: "+err.Error())
		return
	}

	result, err := logs.Search(r.Context(), params)
	if err != nil {
		s.writeBackendError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) getLogHandler(w http.ResponseWriter, r *http.Request) {
	_, factory := s.current()

	logs, _, err := factory(r.PathValue("id"))
	if err != nil {
		s.writeBackendError(w, err)
		return
	}

	entry, err := logs.Get(r.Context(), r.PathValue("logId"))
	if err != nil {
		s.writeBackendError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, entry)
}
