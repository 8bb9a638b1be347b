package ai

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrEmptyCompletion indicates the provider returned no usable candidate.
var ErrEmptyCompletion = errors.New("completion returned no content")

// Prompt is the two-message request sent to a completion provider.
type Prompt struct {
	System string
	User   string
}

// Result is the JSON object produced by the model.
type Result struct {
	Raw      json.RawMessage
	Body     map[string]interface{}
	Provider string
	Model    string
}

// Grader describes a completion service able to grade a composed prompt.
type Grader interface {
	Grade(ctx context.Context, prompt Prompt) (Result, error)
	Provider() string
	Model() string
}
