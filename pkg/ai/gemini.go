package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/option"
)

// GeminiConfig defines configuration options for the Gemini grader.
type GeminiConfig struct {
	APIKey string
	Model  string
	Logger zerolog.Logger
}

// GeminiGrader implements Grader against the Gemini generateContent API.
type GeminiGrader struct {
	client   *genai.Client
	cfg      GeminiConfig
	tracer   trace.Tracer
	logger   zerolog.Logger
	generate func(ctx context.Context, prompt Prompt) (*genai.GenerateContentResponse, error)
}

// NewGeminiGrader opens a long-lived Gemini client. Close releases it.
func NewGeminiGrader(ctx context.Context, cfg GeminiConfig) (*GeminiGrader, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	grader := &GeminiGrader{
		client: client,
		cfg:    cfg,
		tracer: otel.Tracer("github.com/noah-isme/crfpa-grader-api/pkg/ai/gemini"),
		logger: logger.With().Str("component", "gemini_grader").Logger(),
	}
	grader.generate = grader.generateContent
	return grader, nil
}

// Provider reports the provider label used in errors and metrics.
func (g *GeminiGrader) Provider() string { return "Gemini" }

// Model reports the configured model identifier.
func (g *GeminiGrader) Model() string { return g.cfg.Model }

// Close releases the underlying client.
func (g *GeminiGrader) Close() error {
	return g.client.Close()
}

// Grade sends the prompt to Gemini and decodes the first text part as JSON.
func (g *GeminiGrader) Grade(parent context.Context, prompt Prompt) (Result, error) {
	ctx, span := g.tracer.Start(parent, "gemini.grade", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	resp, err := g.generate(ctx, prompt)
	completionDuration.WithLabelValues("gemini", g.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		return Result{}, g.fail(span, err)
	}

	text := firstText(resp)
	if text == "" {
		return Result{}, g.fail(span, ErrEmptyCompletion)
	}

	object, err := ParseObject(text)
	if err != nil {
		return Result{}, g.fail(span, err)
	}

	if resp.UsageMetadata != nil {
		g.logger.Debug().
			Int32("prompt_tokens", resp.UsageMetadata.PromptTokenCount).
			Int32("completion_tokens", resp.UsageMetadata.CandidatesTokenCount).
			Msg("completion received")
	}

	return Result{Raw: object.Raw, Body: object.Body, Provider: g.Provider(), Model: g.cfg.Model}, nil
}

func (g *GeminiGrader) generateContent(ctx context.Context, prompt Prompt) (*genai.GenerateContentResponse, error) {
	model := g.client.GenerativeModel(g.cfg.Model)
	configureModel(model, prompt)
	return model.GenerateContent(ctx, genai.Text(prompt.User))
}

// configureModel requests one deterministic JSON candidate.
func configureModel(model *genai.GenerativeModel, prompt Prompt) {
	model.GenerationConfig = genai.GenerationConfig{
		CandidateCount:   ptrInt32(1),
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(prompt.System)},
	}
}

func (g *GeminiGrader) fail(span trace.Span, err error) error {
	completionFailures.WithLabelValues("gemini", g.cfg.Model).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			return string(text)
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }

func ptrInt32(v int32) *int32 { return &v }
