package api

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/rohads/internal/marketing"
	"github.com/JaimeStill/rohads/pkg/handlers"
	"github.com/JaimeStill/rohads/pkg/routes"
)

type optionsHandler struct {
	logger *slog.Logger
}

func newOptionsHandler(logger *slog.Logger) *optionsHandler {
	return &optionsHandler{
		logger: logger.With("handler", "options"),
	}
}

func (h *optionsHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/options",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list},
		},
	}
}

func (h *optionsHandler) list(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, marketing.AllOptions())
}
