package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies grading failures without changing what the caller sees.
type ErrorKind string

const (
	// KindDataFetch marks a failed read from the methodology or rubric tables.
	KindDataFetch ErrorKind = "data_fetch"
	// KindCompletionService marks any failure while calling or decoding the completion service.
	KindCompletionService ErrorKind = "completion_service"
)

var (
	// ErrDataFetch matches any GradingError of kind KindDataFetch.
	ErrDataFetch = errors.New("data fetch failed")
	// ErrCompletionService matches any GradingError of kind KindCompletionService.
	ErrCompletionService = errors.New("completion service failed")
)

// GradingError wraps the underlying cause with its kind and the source that produced it.
type GradingError struct {
	Kind   ErrorKind
	Source string
	Err    error
}

func (e *GradingError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Source, e.Err)
}

func (e *GradingError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is select a GradingError by kind.
func (e *GradingError) Is(target error) bool {
	switch target {
	case ErrDataFetch:
		return e.Kind == KindDataFetch
	case ErrCompletionService:
		return e.Kind == KindCompletionService
	}
	return false
}

func dataFetchError(table string, err error) error {
	return &GradingError{Kind: KindDataFetch, Source: table, Err: err}
}

func completionError(provider string, err error) error {
	return &GradingError{Kind: KindCompletionService, Source: provider, Err: err}
}
