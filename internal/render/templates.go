package render

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// TemplateSet holds all parsed page templates.
// Each page is parsed together with the base layout as its own
// template.Template, so {{define "content"}} blocks never collide.
type TemplateSet struct {
	pages map[string]*template.Template
	mu    sync.RWMutex
}

// Execute renders the named page through the "base" layout.
func (ts *TemplateSet) Execute(w io.Writer, pageName string, data interface{}) error {
	ts.mu.RLock()
	tmpl, ok := ts.pages[pageName]
	ts.mu.RUnlock()

	if !ok {
		return fmt.Errorf("template %q not found", pageName)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

// Has checks if a page template exists
func (ts *TemplateSet) Has(pageName string) bool {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	_, ok := ts.pages[pageName]
	return ok
}

// Names returns all available page template names
func (ts *TemplateSet) Names() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	names := make([]string, 0, len(ts.pages))
	for name := range ts.pages {
		names = append(names, name)
	}
	return names
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"prettyJSON": PrettyJSON,
		"rfc3339": func(t time.Time) string {
			return t.UTC().Format(time.RFC3339)
		},
		"statusClass": func(code int) string {
			switch {
			case code >= 200 && code < 300:
				return "ok"
			case code >= 400 && code < 500:
				return "client-error"
			case code >= 500:
				return "server-error"
			default:
				return ""
			}
		},
	}
}

// PrettyJSON re-indents a JSON document for display; anything that does not
// parse comes back unchanged so raw error bodies still render.
func PrettyJSON(body string) string {
	var decoded interface{}
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return body
	}
	pretty, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		return body
	}
	return string(pretty)
}

// Load parses the base layout plus every page template under path.
// If path is empty, defaults to "web/templates".
func Load(path string) (*TemplateSet, error) {
	if path == "" {
		path = "web/templates"
	}

	basePath := filepath.Join(path, "base.html")
	pagePaths, err := filepath.Glob(filepath.Join(path, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("globbing templates in %s: %w", path, err)
	}
	if len(pagePaths) == 0 {
		return nil, fmt.Errorf("no templates found in %s", path)
	}

	ts := &TemplateSet{pages: make(map[string]*template.Template)}
	for _, pagePath := range pagePaths {
		name := filepath.Base(pagePath)
		if name == "base.html" || strings.HasPrefix(name, "_") {
			continue
		}
		tmpl, err := template.New(name).Funcs(funcMap()).ParseFiles(basePath, pagePath)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		ts.pages[name] = tmpl
	}

	if len(ts.pages) == 0 {
		return nil, fmt.Errorf("no page templates found in %s", path)
	}
	return ts, nil
}
