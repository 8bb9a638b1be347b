package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/crfpa-grader-api/internal/dto"
	"github.com/noah-isme/crfpa-grader-api/internal/repository"
	"github.com/noah-isme/crfpa-grader-api/pkg/ai"
)

// GradingService grades one candidate answer against the current methodology and the exercise rubric.
type GradingService interface {
	Grade(ctx context.Context, input dto.GradeInput) (json.RawMessage, error)
}

// GradingConfig tunes the grading pipeline.
type GradingConfig struct {
	// StrictSchema rejects model output that does not match the documented grade schema.
	StrictSchema bool
}

type gradingService struct {
	methodology repository.MethodologyRepository
	rubrics     repository.RubricRepository
	grader      ai.Grader
	schema      *jsonschema.Schema
	logger      zerolog.Logger
}

// NewGradingService constructs the grading pipeline.
func NewGradingService(methodology repository.MethodologyRepository, rubrics repository.RubricRepository, grader ai.Grader, logger zerolog.Logger, cfg GradingConfig) (GradingService, error) {
	if grader == nil {
		return nil, fmt.Errorf("grader is required")
	}

	service := &gradingService{
		methodology: methodology,
		rubrics:     rubrics,
		grader:      grader,
		logger:      logger.With().Str("component", "grading_service").Logger(),
	}

	if cfg.StrictSchema {
		schema, err := CompileGradeResultSchema()
		if err != nil {
			return nil, err
		}
		service.schema = schema
	}

	return service, nil
}

func (s *gradingService) Grade(ctx context.Context, input dto.GradeInput) (json.RawMessage, error) {
	tracer := otel.Tracer("github.com/noah-isme/crfpa-grader-api/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.grade")
	span.SetAttributes(
		attribute.String("grading.exercise_slug", input.ExerciseSlug),
		attribute.String("grading.provider", s.grader.Provider()),
		attribute.String("grading.prompt_version", PromptVersion),
	)
	defer span.End()

	doc, err := s.methodology.Current(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "methodology_lookup_failed")
		return nil, dataFetchError("methodology_docs", err)
	}

	criteria, err := s.methodology.Criteria(ctx, doc.Version)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "criteria_lookup_failed")
		return nil, dataFetchError("methodology_criteria", err)
	}

	rubric, err := s.rubrics.ListByExercise(ctx, input.ExerciseSlug)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rubric_lookup_failed")
		return nil, dataFetchError("exercise_rubrics", err)
	}

	if len(rubric) == 0 {
		s.logger.Warn().Str("exercise_slug", input.ExerciseSlug).Msg("no rubric rows for exercise")
	}

	prompt, err := ComposePrompt(input.CandidateAnswer, doc, criteria, rubric)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "prompt_failed")
		return nil, completionError(s.grader.Provider(), err)
	}

	result, err := s.grader.Grade(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion_failed")
		return nil, completionError(s.grader.Provider(), err)
	}
	if len(result.Raw) == 0 {
		raw, err := json.Marshal(result.Body)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "completion_failed")
			return nil, completionError(s.grader.Provider(), err)
		}
		result.Raw = raw
	}

	if s.schema != nil {
		if err := s.schema.Validate(result.Body); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "schema_violation")
			return nil, completionError(s.grader.Provider(), fmt.Errorf("grade does not match schema: %w", err))
		}
	}

	event := s.logger.Info().
		Str("exercise_slug", input.ExerciseSlug).
		Str("methodology_version", doc.Version).
		Int("criteria", len(criteria)).
		Int("rubric_rows", len(rubric)).
		Str("model", result.Model)

	var grade dto.GradeResult
	if err := json.Unmarshal(result.Raw, &grade); err == nil {
		event = event.Float64("note_finale_sur20", grade.NoteFinaleSur20)
		if expected := grade.ExpectedFinal(); math.Abs(expected-grade.NoteFinaleSur20) > finalScoreTolerance {
			event = event.Float64("expected_note_finale_sur20", expected).Bool("final_score_mismatch", true)
		}
	}
	event.Msg("answer graded")

	return result.Raw, nil
}

// finalScoreTolerance absorbs float noise around the one-decimal rounding.
const finalScoreTolerance = 1e-6
