package endpoints

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/modelbase/modelbase/pkg/schema"
	"github.com/modelbase/modelbase/pkg/server"
)

// The parser configuration never changes and a goldmark instance is safe to
// share across requests.
var docsMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RegisterDocsEndpoints registers the rendered model documentation index.
// The page is public; it can be switched off with docs_enabled.
func RegisterDocsEndpoints(s *server.Server) {
	s.Router.HandleFunc("/docs", handleDocs(s)).Methods("GET")
}

func handleDocs(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.Config.DocsEnabled {
			http.NotFound(w, r)
			return
		}

		decls, err := s.ModelsStore.ListModels()
		if err != nil {
			respondWithStorageError(w)
			return
		}

		// Only models actually serving traffic are documented.
		published := make([]*schema.Declaration, 0, len(decls))
		for _, decl := range decls {
			if s.Registry.IsRegistered(decl.Name) {
				published = append(published, decl)
			}
		}
		sort.Slice(published, func(i, j int) bool {
			return published[i].Name < published[j].Name
		})

		var rendered bytes.Buffer
		if err := docsMarkdown.Convert([]byte(modelsMarkdown(published)), &rendered); err != nil {
			http.Error(w, "Failed to render documentation", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width">
    <title>Modelbase Models</title>
    <style>
      body { font-family: sans-serif; margin: 3em auto; max-width: 46em; color: #222; }
      h1 { border-bottom: 2px solid #4a6fa5; padding-bottom: 0.3em; }
      h2 { margin-top: 1.6em; }
      table { border-collapse: collapse; }
      th, td { border: 1px solid #ccc; padding: 0.3em 0.8em; text-align: left; }
      code { background: #f4f4f4; padding: 0.1em 0.3em; }
    </style>
  </head>
  <body>
`))
		_, _ = w.Write(rendered.Bytes())
		_, _ = w.Write([]byte("  </body>\n</html>\n"))
	}
}

// modelsMarkdown builds the documentation source for the published models.
// Declaration descriptions are markdown themselves and are embedded as-is.
func modelsMarkdown(decls []*schema.Declaration) string {
	var b strings.Builder

	b.WriteString("# Modelbase Models\n\n")
	if len(decls) == 0 {
		b.WriteString("No models are published yet.\n")
		return b.String()
	}

	for _, decl := range decls {
		fmt.Fprintf(&b, "## %s\n\n", decl.Name)
		fmt.Fprintf(&b, "Served at `/api/%s`\n\n", decl.PathSegment())

		if decl.Description != "" {
			b.WriteString(decl.Description)
			b.WriteString("\n\n")
		}

		b.WriteString("| Field | Type | Required | Unique | Default |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, field := range decl.Fields {
			fmt.Fprintf(&b, "| `%s` | %s | %s | %s | %s |\n",
				field.Name, field.Type,
				yesNo(field.Required), yesNo(field.Unique),
				defaultCell(field.Default),
			)
		}
		b.WriteString("\n")

		if decl.OwnerField != "" {
			fmt.Fprintf(&b, "Records are owned through the `%s` field.\n\n", decl.OwnerField)
		}

		roles := make([]string, 0, len(decl.Policy))
		for role := range decl.Policy {
			roles = append(roles, role)
		}
		sort.Strings(roles)
		for _, role := range roles {
			ops := decl.Policy[role]
			tokens := make([]string, 0, len(ops))
			for _, op := range ops {
				tokens = append(tokens, op.String())
			}
			fmt.Fprintf(&b, "- role `%s`: %s\n", role, strings.Join(tokens, ", "))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func defaultCell(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("`%v`", v)
}
