package api

import (
	"github.com/JaimeStill/registrar/pkg/routes"
	"github.com/JaimeStill/registrar/pkg/web"
	"github.com/JaimeStill/registrar/web/forms"
)

func registerRoutes(router *web.Router, domain *Domain, views *web.TemplateSet) error {
	static, err := forms.Static()
	if err != nil {
		return err
	}

	routes.Register(
		router,
		domain.Registration.Handler(views).Routes(),
		routes.Group{
			Prefix: forms.StaticPrefix,
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/", Handler: static},
			},
		},
	)
	return nil
}

