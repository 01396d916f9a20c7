// Package api assembles the registration front end with its domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/registrar/internal/config"
	"github.com/JaimeStill/registrar/internal/infrastructure"
	"github.com/JaimeStill/registrar/pkg/middleware"
	"github.com/JaimeStill/registrar/pkg/web"
	"github.com/JaimeStill/registrar/web/forms"
)

// BasePath is the path the front end is served under.
const BasePath = "/"

// NewHandler creates the front-end handler with all domain routes, the
// embedded static assets, a not-found page and the request middleware.
func NewHandler(cfg *config.Config, infra *infrastructure.Infrastructure) (http.Handler, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	views, err := forms.NewTemplateSet(BasePath)
	if err != nil {
		return nil, err
	}

	router := web.NewRouter()
	if err := registerRoutes(router, domain, views); err != nil {
		return nil, err
	}
	router.SetFallback(views.ErrorHandler(forms.Layout, forms.NotFound, http.StatusNotFound))

	mw := middleware.New()
	mw.Use(
		middleware.RequestID(),
		middleware.Logger(runtime.Logger),
	)

	return mw.Apply(router), nil
}
