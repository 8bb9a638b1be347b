package dto

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestFinalScore(t *testing.T) {
	cases := []struct {
		specific, methodology, want float64
	}{
		{12, 14, 12.5},
		{20, 20, 20},
		{0, 0, 0},
		{13, 14, 13.3},
		{11.2, 9.7, 10.8},
	}
	for _, tc := range cases {
		require.InDelta(t, tc.want, FinalScore(tc.specific, tc.methodology), 1e-9)
	}
}

func TestGradeResultExpectedFinal(t *testing.T) {
	result := GradeResult{NoteMethodologieSur20: 14, NoteSpecifiqueSur20: 13}
	require.InDelta(t, 13.3, result.ExpectedFinal(), 1e-9)
}

func TestGradeRequestAcceptsEmptyStrings(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	var payload GradeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"exercise_slug":"","candidate_answer":""}`), &payload))
	require.NoError(t, validate.Struct(payload))
	require.Equal(t, GradeInput{}, payload.Input())

	var missing GradeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"exercise_slug":"ex-1"}`), &missing))
	require.Error(t, validate.Struct(missing))

	var null GradeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"exercise_slug":"ex-1","candidate_answer":null}`), &null))
	require.Error(t, validate.Struct(null))
}
