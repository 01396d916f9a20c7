package registration

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/registrar/pkg/handlers"
	"github.com/JaimeStill/registrar/pkg/middleware"
	"github.com/JaimeStill/registrar/pkg/routes"
	"github.com/JaimeStill/registrar/pkg/web"
	"github.com/JaimeStill/registrar/web/forms"
)

// FlowQueryParam carries the flow id on inbound requests.
const FlowQueryParam = "flow"

// Handler serves the registration form.
type Handler struct {
	sys    System
	views  *web.TemplateSet
	logger *slog.Logger
}

// NewHandler creates a Handler rendering through views.
func NewHandler(sys System, views *web.TemplateSet, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		views:  views,
		logger: logger.With("handler", "registration"),
	}
}

// Routes returns the route group for the registration form at the service root.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{$}", Handler: h.Form},
		},
	}
}

// Form resolves the flow named by the flow query parameter. Success renders
// the form page; failures are written as plain text: the combined provider
// messages with 400, or the error description with 500.
func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	flowID := r.URL.Query().Get(FlowQueryParam)
	logger := h.logger.With(
		"flow_id", flowID,
		"request_id", middleware.RequestIDFrom(r.Context()),
	)

	if flowID == "" {
		handlers.RespondText(w, MapHTTPStatus(ErrMissingFlow), ErrMissingFlow.Error())
		return
	}

	outcome := h.sys.Resolve(r.Context(), flowID)

	switch outcome.Kind {
	case Success:
		data := web.ViewData{
			Title: forms.Form.Title,
			Data:  outcome.Flow,
		}
		if err := h.views.Render(w, outcome.Status(), forms.Layout, forms.Form.Template, data); err != nil {
			logger.Error("render form failed", "error", err)
			handlers.RespondText(w, http.StatusInternalServerError, "failed to render registration form")
			return
		}
		logger.Info("registration form rendered", "fields", len(outcome.Flow.Form().Fields))
	case ClientFailure:
		logger.Warn("flow reported errors", "messages", outcome.Message)
		handlers.RespondText(w, outcome.Status(), outcome.Message)
	default:
		logger.Error("flow resolution failed", "error", outcome.Err)
		handlers.RespondText(w, outcome.Status(), outcome.Message)
	}
}
