package llm

import "errors"

var (
	ErrNotConfigured   = errors.New("llm not configured")
	ErrGenerate        = errors.New("llm generation failed")
	ErrEmptyCompletion = errors.New("llm returned an empty completion")
)
