package web

import (
	"bytes"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// pageShell is the minimal HTML frame the markdown content renders into.
// Marketing layout and styling live in the static assets, not here.
var pageShell = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} | Keystone Tutoring</title>
<link rel="stylesheet" href="/static/site.css">
</head>
<body>
<main>{{.Body}}</main>
<script src="/static/wizard.js"></script>
</body>
</html>
`))

// handleContentPage serves markdown content files rendered through goldmark.
// "/" maps to home.md, "/enquiry" to enquiry.md, "/courses/<slug>" to
// courses/<slug>.md under the content directory.
func handleContentPage(contentDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		name, ok := contentFileFor(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}

		md, err := os.ReadFile(filepath.Join(contentDir, name))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		var body bytes.Buffer
		if err := mdRenderer.Convert(md, &body); err != nil {
			internalError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		pageShell.Execute(w, map[string]any{
			"Title": pageTitle(name),
			"Body":  template.HTML(body.String()),
		})
	}
}

// contentFileFor maps a request path to a markdown file name. Slugs are
// restricted to lowercase letters, digits and hyphens so request paths can
// never escape the content directory.
func contentFileFor(path string) (string, bool) {
	switch path {
	case "/":
		return "home.md", true
	case "/enquiry":
		return "enquiry.md", true
	}
	if slug, found := strings.CutPrefix(path, "/courses/"); found {
		if slug == "" || !isCleanSlug(slug) {
			return "", false
		}
		return filepath.Join("courses", slug+".md"), true
	}
	return "", false
}

func isCleanSlug(slug string) bool {
	for _, c := range slug {
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-' {
			continue
		}
		return false
	}
	return true
}

func pageTitle(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), ".md")
	if base == "home" {
		return "Private Tutoring"
	}
	words := strings.Split(strings.ReplaceAll(base, "-", " "), " ")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}
