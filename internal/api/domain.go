package api

import (
	"github.com/JaimeStill/rohads/internal/narration"
	"github.com/JaimeStill/rohads/internal/sessions"
	"github.com/JaimeStill/rohads/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Sessions sessions.System
	Workflow *workflow.Runtime
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	var narrator *narration.Pipeline
	if runtime.Synthesizer != nil {
		narrator = narration.New(
			runtime.Generator,
			runtime.Synthesizer,
			runtime.Params,
			runtime.Logger,
		)
	}

	return &Domain{
		Sessions: runtime.Sessions,
		Workflow: &workflow.Runtime{
			Generator: runtime.Generator,
			Narrator:  narrator,
			Params:    runtime.Params,
			Logger:    runtime.Logger,
		},
	}
}
