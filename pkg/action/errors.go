package action

import "errors"

// ErrTemplate is spec.md §7's TemplateError: a user-provided key/document
// template failed to render.
var ErrTemplate = errors.New("action: template render failed")

// ErrModel is spec.md §7's ModelError: the LLM call-out in custom.transform
// failed. The transform's effect on ModelError is to leave the target
// unchanged (spec.md §7: "returns the empty string, preserving the
// document"), not to fail the whole resolve.
var ErrModel = errors.New("action: model call failed")
