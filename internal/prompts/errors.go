package prompts

import "errors"

// ErrInvalidStage is returned for stages that have no prompt template.
var ErrInvalidStage = errors.New("stage has no prompt template")
