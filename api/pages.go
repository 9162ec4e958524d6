package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/fetchops/ai-project-catalog/catalog"
	"github.com/fetchops/ai-project-catalog/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFuncs = template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
	"deployed": func(p models.Project) string {
		if day, ok := p.DeployedOn(); ok {
			return day.Format(catalog.DateLayout)
		}
		return "—"
	},
	"timestamp": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04 MST")
	},
}

// page is what every template receives
type page struct {
	Title string
	Admin *Admin
	Data  any
}

type pageRenderer struct {
	pages map[string]*template.Template
}

func newPageRenderer() (*pageRenderer, error) {
	names := []string{"home", "projects", "project", "form", "admin", "experts", "notfound"}
	r := &pageRenderer{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		t, err := template.New(name).Funcs(pageFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// render executes the named page into a buffer first so a template error
// never leaves a half-written page behind
func (pr *pageRenderer) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) error {
	t, ok := pr.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	p := page{Title: title, Data: data}
	if admin, ok := ctxGetAdmin(r.Context()); ok {
		p.Admin = &admin
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
