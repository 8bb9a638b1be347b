package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/noah-isme/crfpa-grader-api/internal/models"
	"github.com/noah-isme/crfpa-grader-api/pkg/ai"
)

// PromptVersion identifies the instruction template below. Bump it whenever the wording changes.
const PromptVersion = "crfpa-grader/v1"

var graderInstructions = strings.Join([]string{
	"Tu es un correcteur CRFPA.",
	"Produis UNIQUEMENT du JSON valide suivant ce schéma:",
	"{" +
		"\"note_methodologie_sur20\": number," +
		"\"details_methodologie\": [" +
		"{\"order_index\": number, \"label\": string, \"points_awarded\": number, \"max_points\": number}" +
		"]," +
		"\"note_specifique_sur20\": number," +
		"\"details_specifique\": [" +
		"{\"part_title_expected\": string, \"subpart_title_expected\": string, \"subsection\": string, " +
		"\"item_label\": string, \"points_awarded\": number, \"points_max\": number}" +
		"]," +
		"\"note_finale_sur20\": number" +
		"}",
	"Formule: note_finale = ((note_specifique_sur20 * 3) + note_methodologie_sur20) / 4, arrondie au dixième.",
	"Évalue strictement à partir des données fournies (critères méthodo et grille spécifique). N’invente aucun item.",
}, "\n")

// gradingPayload fixes the key order of the user message.
type gradingPayload struct {
	CandidateAnswer     string                        `json:"candidate_answer"`
	MethodologyText     string                        `json:"methodology_text"`
	MethodologyCriteria []models.MethodologyCriterion `json:"methodology_criteria"`
	SpecificRubricRows  []models.RubricRow            `json:"specific_rubric_rows"`
}

// SystemInstructions returns the fixed grading instructions.
func SystemInstructions() string {
	return graderInstructions
}

// ComposePrompt builds the system and user messages for one grading request.
// It is pure: the same inputs always yield byte-identical messages.
func ComposePrompt(answer string, doc models.MethodologyDocument, criteria []models.MethodologyCriterion, rubric []models.RubricRow) (ai.Prompt, error) {
	if criteria == nil {
		criteria = []models.MethodologyCriterion{}
	}
	if rubric == nil {
		rubric = []models.RubricRow{}
	}

	payload := gradingPayload{
		CandidateAnswer:     answer,
		MethodologyText:     doc.Content,
		MethodologyCriteria: criteria,
		SpecificRubricRows:  rubric,
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(payload); err != nil {
		return ai.Prompt{}, fmt.Errorf("encode grading payload: %w", err)
	}

	return ai.Prompt{
		System: graderInstructions,
		User:   strings.TrimSuffix(buf.String(), "\n"),
	}, nil
}
