// Package web renders server-side HTML pages from pre-parsed templates and
// serves embedded static assets.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
)

// ViewDef names a page template and its document title.
type ViewDef struct {
	Template string
	Title    string
}

// ViewData is passed to page templates. BasePath enables portable URL
// generation in templates via {{ .BasePath }}.
type ViewData struct {
	Title    string
	BasePath string
	Data     any
}

// TemplateSet holds pre-parsed templates and a base path for URL generation.
type TemplateSet struct {
	views    map[string]*template.Template
	basePath string
}

// NewTemplateSet parses the layout templates matched by layoutGlob and clones
// them once per view, so each view can define its own blocks. Parsing happens
// here so a broken template fails startup rather than a request.
func NewTemplateSet(fsys fs.FS, layoutGlob, viewSubdir, basePath string, views []ViewDef) (*TemplateSet, error) {
	layouts, err := template.ParseFS(fsys, layoutGlob)
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}

	viewSub, err := fs.Sub(fsys, viewSubdir)
	if err != nil {
		return nil, err
	}

	viewTemplates := make(map[string]*template.Template, len(views))
	for _, v := range views {
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", v.Template, err)
		}
		if _, err := t.ParseFS(viewSub, v.Template); err != nil {
			return nil, fmt.Errorf("parse template: %s: %w", v.Template, err)
		}
		viewTemplates[v.Template] = t
	}

	return &TemplateSet{
		views:    viewTemplates,
		basePath: basePath,
	}, nil
}

// BasePath returns the base path injected into every ViewData.
func (ts *TemplateSet) BasePath() string {
	return ts.basePath
}

// Execute writes the named layout for view to w.
func (ts *TemplateSet) Execute(w io.Writer, layout, view string, data ViewData) error {
	t, ok := ts.views[view]
	if !ok {
		return fmt.Errorf("template not found: %s", view)
	}
	if data.BasePath == "" {
		data.BasePath = ts.basePath
	}
	return t.ExecuteTemplate(w, layout, data)
}

// Render executes the view into a buffer and only then writes the status and
// body, so a template failure never leaves a half-written page.
func (ts *TemplateSet) Render(w http.ResponseWriter, status int, layout, view string, data ViewData) error {
	var buf bytes.Buffer
	if err := ts.Execute(&buf, layout, view, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// ErrorHandler returns an HTTP handler that renders view with the given status.
func (ts *TemplateSet) ErrorHandler(layout string, view ViewDef, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := ViewData{Title: view.Title}
		if err := ts.Render(w, status, layout, view.Template, data); err != nil {
			http.Error(w, http.StatusText(status), status)
		}
	}
}
