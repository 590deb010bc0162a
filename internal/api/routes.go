package api

import (
	"net/http"

	"github.com/JaimeStill/rohads/internal/workflow"
	"github.com/JaimeStill/rohads/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Sessions.Handler(runtime.MaxUploadSize, workflow.Status).Routes(),
		workflow.NewHandler(domain.Workflow, domain.Sessions, runtime.MaxUploadSize).Routes(),
		newOptionsHandler(runtime.Logger).routes(),
	)
}
