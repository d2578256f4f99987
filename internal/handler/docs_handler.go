package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
)

const swaggerCSP = "default-src 'self'; connect-src 'self' https://unpkg.com; " +
	"script-src 'self' 'unsafe-inline' https://unpkg.com; style-src 'self' 'unsafe-inline' https://unpkg.com; " +
	"img-src 'self' data: https://validator.swagger.io"

var swaggerPage = template.Must(template.New("swagger").Parse(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>{{.Title}}</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
    <style>body{margin:0;background:#fafafa;}#swagger-ui{max-width:1200px;margin:0 auto;}</style>
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: {{.SpecURL}},
        dom_id: '#swagger-ui',
        deepLinking: true,
        displayRequestDuration: true,
        persistAuthorization: true,
        withCredentials: true
      });
    </script>
  </body>
</html>`))

// DocsHandler serves the OpenAPI document and a Swagger UI page for it. The
// document is read on first use and cached for the life of the process.
type DocsHandler struct {
	specPath string

	once    sync.Once
	content []byte
	etag    string
	loadErr error
}

func NewDocsHandler(specPath string) *DocsHandler {
	return &DocsHandler{specPath: strings.TrimSpace(specPath)}
}

func (h *DocsHandler) load() {
	h.content, h.loadErr = os.ReadFile(h.specPath)
	if h.loadErr != nil {
		slog.Warn("openapi spec unavailable", "path", h.specPath, "error", h.loadErr)
		return
	}
	sum := sha256.Sum256(h.content)
	h.etag = `"` + hex.EncodeToString(sum[:8]) + `"`
}

func (h *DocsHandler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.specPath == "" {
		http.Error(w, "openapi spec not configured", http.StatusInternalServerError)
		return
	}

	h.once.Do(h.load)
	if h.loadErr != nil {
		http.Error(w, "openapi spec not found", http.StatusNotFound)
		return
	}

	w.Header().Set("ETag", h.etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == h.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.content)
}

func (h *DocsHandler) SwaggerUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Security-Policy", swaggerCSP)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	err := swaggerPage.Execute(w, struct {
		Title   string
		SpecURL string
	}{Title: "Checklist API Docs", SpecURL: "/openapi.yaml"})
	if err != nil {
		slog.Error("render swagger page failed", "error", err)
	}
}
