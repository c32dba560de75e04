package httpapi

import (
	_ "embed"
	"html/template"
	"net/http"
	"strings"
)

const openAPIPath = "/openapi.yaml"

//go:embed openapi.yaml
var openAPISpec []byte

var swaggerPageTemplate = template.Must(template.New("docs").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>{{.Title}}</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({url: {{.SpecURL}}, dom_id: '#swagger-ui', deepLinking: true});
    </script>
  </body>
</html>`))

// swaggerPage is rendered once; the docs routes are only mounted when
// SWAGGER_ENABLED is set.
var swaggerPage = renderSwaggerPage("Courtside Sync API Docs", openAPIPath)

func renderSwaggerPage(title, specURL string) []byte {
	var b strings.Builder
	if err := swaggerPageTemplate.Execute(&b, struct{ Title, SpecURL string }{title, specURL}); err != nil {
		panic(err)
	}
	return []byte(b.String())
}

func (h *Handler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	if _, err := w.Write(openAPISpec); err != nil {
		h.logger.WarnContext(r.Context(), "write openapi document failed", "error", err)
	}
}

func (h *Handler) SwaggerUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(swaggerPage); err != nil {
		h.logger.WarnContext(r.Context(), "write docs page failed", "error", err)
	}
}
