// Package forms embeds the page templates and stylesheet for the
// registration front end.
package forms

import (
	"embed"
	"net/http"

	"github.com/JaimeStill/registrar/pkg/web"
)

//go:embed layouts/*.html views/*.html static/*.css
var files embed.FS

// Layout is the outer template every view renders through.
const Layout = "app"

// StaticPrefix is the URL prefix static assets are served under.
const StaticPrefix = "/static"

var (
	Form     = web.ViewDef{Template: "form.html", Title: "Register"}
	NotFound = web.ViewDef{Template: "not-found.html", Title: "Not Found"}
)

// Views lists every view parsed at startup.
var Views = []web.ViewDef{Form, NotFound}

// NewTemplateSet parses the embedded layouts and views.
func NewTemplateSet(basePath string) (*web.TemplateSet, error) {
	return web.NewTemplateSet(files, "layouts/*.html", "views", basePath, Views)
}

// Static serves the embedded stylesheet under StaticPrefix.
func Static() (http.HandlerFunc, error) {
	return web.DistServer(files, "static", StaticPrefix)
}
