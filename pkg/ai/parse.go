package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Object is a completion decoded as exactly one JSON object.
type Object struct {
	// Raw is the compacted object with keys in the order the model wrote them.
	Raw json.RawMessage
	// Body holds the decoded object. Numbers are json.Number.
	Body map[string]interface{}
}

// ParseObject decodes the whole completion text as one JSON object.
// Numbers are kept as json.Number so they are relayed exactly as produced.
func ParseObject(content string) (Object, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Object{}, ErrEmptyCompletion
	}

	decoder := json.NewDecoder(strings.NewReader(trimmed))
	decoder.UseNumber()

	var body map[string]interface{}
	if err := decoder.Decode(&body); err != nil {
		return Object{}, fmt.Errorf("parse completion json: %w", err)
	}
	if body == nil {
		return Object{}, fmt.Errorf("parse completion json: expected an object")
	}

	var extra json.RawMessage
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return Object{}, fmt.Errorf("parse completion json: unexpected data after object")
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(trimmed)); err != nil {
		return Object{}, fmt.Errorf("parse completion json: %w", err)
	}

	return Object{Raw: compact.Bytes(), Body: body}, nil
}
