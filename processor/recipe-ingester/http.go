package recipeingester

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/c360studio/semrecipe/source"
)

// RegisterHTTPHandlers exposes the recipe API under prefix. The routes
// answer 503 until Start has opened draft storage.
//
//	GET    <prefix>extract-recipe?url=...
//	POST   <prefix>import
//	GET    <prefix>drafts
//	GET    <prefix>drafts/{id}
//	DELETE <prefix>drafts/{id}
func (c *Component) RegisterHTTPHandlers(prefix string, mux *http.ServeMux) {
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix = prefix + "/"
	}

	c.mu.Lock()
	c.apiPrefix = prefix
	c.mu.Unlock()

	mux.HandleFunc(prefix, c.serveAPI)
}

// mountAPI installs the handler requests are forwarded to.
func (c *Component) mountAPI(h *source.HTTPHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := c.apiPrefix
	if prefix == "" {
		prefix = "/"
	}
	inner := http.NewServeMux()
	h.RegisterHTTPHandlers(prefix, inner)
	c.api = inner
}

func (c *Component) serveAPI(w http.ResponseWriter, r *http.Request) {
	c.mu.RLock()
	api := c.api
	c.mu.RUnlock()

	if api == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(source.ErrorResponse{
			Error:   "unavailable",
			Message: "Recipe ingester is not running",
		})
		return
	}
	api.ServeHTTP(w, r)
}
