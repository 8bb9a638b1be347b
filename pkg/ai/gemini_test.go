package ai

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func newGeminiTestGrader(generate func(context.Context, Prompt) (*genai.GenerateContentResponse, error)) *GeminiGrader {
	return &GeminiGrader{
		cfg:      GeminiConfig{Model: "gemini-2.5-flash"},
		tracer:   otel.Tracer("test"),
		logger:   zerolog.Nop(),
		generate: generate,
	}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(text)}}},
		},
		UsageMetadata: &genai.UsageMetadata{PromptTokenCount: 12, CandidatesTokenCount: 4},
	}
}

func TestGeminiGraderDecodesFirstText(t *testing.T) {
	var sent Prompt
	grader := newGeminiTestGrader(func(_ context.Context, prompt Prompt) (*genai.GenerateContentResponse, error) {
		sent = prompt
		return textResponse("{\"note_finale_sur20\": 11.5, \"details_specifique\": []}"), nil
	})

	result, err := grader.Grade(context.Background(), Prompt{System: "system", User: "user"})
	require.NoError(t, err)
	require.Equal(t, Prompt{System: "system", User: "user"}, sent)
	require.Equal(t, json.Number("11.5"), result.Body["note_finale_sur20"])
	require.Equal(t, `{"note_finale_sur20":11.5,"details_specifique":[]}`, string(result.Raw))
	require.Equal(t, "Gemini", result.Provider)
	require.Equal(t, "gemini-2.5-flash", result.Model)
}

func TestGeminiGraderRejectsEmptyCandidates(t *testing.T) {
	cases := map[string]*genai.GenerateContentResponse{
		"no candidates": {},
		"nil content":   {Candidates: []*genai.Candidate{{}}},
		"empty text":    textResponse(""),
	}
	for name, resp := range cases {
		t.Run(name, func(t *testing.T) {
			grader := newGeminiTestGrader(func(context.Context, Prompt) (*genai.GenerateContentResponse, error) {
				return resp, nil
			})

			result, err := grader.Grade(context.Background(), Prompt{})
			require.ErrorIs(t, err, ErrEmptyCompletion)
			require.Nil(t, result.Body)
		})
	}
}

func TestGeminiGraderRejectsMalformedJSON(t *testing.T) {
	grader := newGeminiTestGrader(func(context.Context, Prompt) (*genai.GenerateContentResponse, error) {
		return textResponse("La copie mérite 12/20."), nil
	})

	result, err := grader.Grade(context.Background(), Prompt{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse completion json")
	require.Nil(t, result.Body)
}

func TestGeminiGraderSurfacesAPIErrors(t *testing.T) {
	grader := newGeminiTestGrader(func(context.Context, Prompt) (*genai.GenerateContentResponse, error) {
		return nil, errors.New("googleapi: Error 403: API key not valid")
	})

	_, err := grader.Grade(context.Background(), Prompt{})
	require.EqualError(t, err, "googleapi: Error 403: API key not valid")
}

func TestConfigureModelRequestsDeterministicJSON(t *testing.T) {
	model := &genai.GenerativeModel{}
	configureModel(model, Prompt{System: "instructions", User: "payload"})

	require.Equal(t, "application/json", model.ResponseMIMEType)
	require.NotNil(t, model.Temperature)
	require.Zero(t, *model.Temperature)
	require.NotNil(t, model.CandidateCount)
	require.Equal(t, int32(1), *model.CandidateCount)
	require.NotNil(t, model.SystemInstruction)
	require.Equal(t, []genai.Part{genai.Text("instructions")}, model.SystemInstruction.Parts)
}

func TestNewGeminiGraderRequiresKey(t *testing.T) {
	_, err := NewGeminiGrader(context.Background(), GeminiConfig{APIKey: "  "})
	require.Error(t, err)
}
