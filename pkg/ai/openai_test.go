package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

func newOpenAITestGrader(t *testing.T, handler http.HandlerFunc) *OpenAIGrader {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	grader, err := NewOpenAIGrader(OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL + "/v1", Logger: zerolog.Nop()})
	require.NoError(t, err)
	return grader
}

func writeCompletion(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"model":   "gpt-4o-mini",
		"choices": []map[string]interface{}{{"index": 0, "message": map[string]string{"role": "assistant", "content": content}, "finish_reason": "stop"}},
		"usage":   map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}))
}

func TestOpenAIGraderSendsDeterministicTwoMessageRequest(t *testing.T) {
	var captured openai.ChatCompletionRequest
	grader := newOpenAITestGrader(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		writeCompletion(t, w, " {\"note_finale_sur20\": 14.5} ")
	})

	result, err := grader.Grade(context.Background(), Prompt{System: "system", User: "user"})
	require.NoError(t, err)
	require.Equal(t, json.Number("14.5"), result.Body["note_finale_sur20"])
	require.Equal(t, `{"note_finale_sur20":14.5}`, string(result.Raw))
	require.Equal(t, "OpenAI", result.Provider)
	require.Equal(t, "gpt-4o-mini", result.Model)

	require.Equal(t, "gpt-4o-mini", captured.Model)
	require.Len(t, captured.Messages, 2)
	require.Equal(t, openai.ChatMessageRoleSystem, captured.Messages[0].Role)
	require.Equal(t, "system", captured.Messages[0].Content)
	require.Equal(t, openai.ChatMessageRoleUser, captured.Messages[1].Role)
	require.Equal(t, "user", captured.Messages[1].Content)
	require.Less(t, captured.Temperature, float32(1e-6))
	require.NotNil(t, captured.ResponseFormat)
	require.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, captured.ResponseFormat.Type)
}

func TestOpenAIGraderRejectsMalformedJSON(t *testing.T) {
	grader := newOpenAITestGrader(t, func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(t, w, "Je ne peux pas noter cette copie.")
	})

	result, err := grader.Grade(context.Background(), Prompt{System: "s", User: "u"})
	require.Error(t, err)
	require.Nil(t, result.Body)
}

func TestOpenAIGraderRejectsEmptyChoices(t *testing.T) {
	grader := newOpenAITestGrader(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-test","object":"chat.completion","model":"gpt-4o-mini","choices":[]}`))
	})

	result, err := grader.Grade(context.Background(), Prompt{System: "s", User: "u"})
	require.ErrorIs(t, err, ErrEmptyCompletion)
	require.Nil(t, result.Body)
}

func TestOpenAIGraderSurfacesAPIErrors(t *testing.T) {
	grader := newOpenAITestGrader(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
	})

	_, err := grader.Grade(context.Background(), Prompt{System: "s", User: "u"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestNewOpenAIGraderRequiresKey(t *testing.T) {
	_, err := NewOpenAIGrader(OpenAIConfig{})
	require.Error(t, err)
}
