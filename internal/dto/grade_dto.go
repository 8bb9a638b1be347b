package dto

import "math"

// GradeRequest is the payload accepted by POST /grade.
// Fields are pointers so that presence is checked while empty strings stay valid.
type GradeRequest struct {
	ExerciseSlug    *string `json:"exercise_slug" validate:"required"`
	CandidateAnswer *string `json:"candidate_answer" validate:"required"`
}

// Input returns the request values. Absent fields become empty strings.
func (r GradeRequest) Input() GradeInput {
	var input GradeInput
	if r.ExerciseSlug != nil {
		input.ExerciseSlug = *r.ExerciseSlug
	}
	if r.CandidateAnswer != nil {
		input.CandidateAnswer = *r.CandidateAnswer
	}
	return input
}

// GradeInput is a validated grading request.
type GradeInput struct {
	ExerciseSlug    string
	CandidateAnswer string
}

// MethodologyDetail is one scored methodology criterion in a grade result.
type MethodologyDetail struct {
	OrderIndex    int     `json:"order_index"`
	Label         string  `json:"label"`
	PointsAwarded float64 `json:"points_awarded"`
	MaxPoints     float64 `json:"max_points"`
}

// SpecificDetail is one scored rubric item in a grade result.
type SpecificDetail struct {
	PartTitleExpected    string  `json:"part_title_expected"`
	SubpartTitleExpected string  `json:"subpart_title_expected"`
	Subsection           string  `json:"subsection"`
	ItemLabel            string  `json:"item_label"`
	PointsAwarded        float64 `json:"points_awarded"`
	PointsMax            float64 `json:"points_max"`
}

// GradeResult is the shape the completion service is instructed to produce.
// The endpoint relays the model output as-is; the service decodes it into this type for logging only.
type GradeResult struct {
	NoteMethodologieSur20 float64             `json:"note_methodologie_sur20"`
	DetailsMethodologie   []MethodologyDetail `json:"details_methodologie"`
	NoteSpecifiqueSur20   float64             `json:"note_specifique_sur20"`
	DetailsSpecifique     []SpecificDetail    `json:"details_specifique"`
	NoteFinaleSur20       float64             `json:"note_finale_sur20"`
}

// ExpectedFinal applies FinalScore to the result's own sub-grades.
func (r GradeResult) ExpectedFinal() float64 {
	return FinalScore(r.NoteSpecifiqueSur20, r.NoteMethodologieSur20)
}

// FinalScore weights the specific grade three times the methodology grade and rounds to one decimal.
func FinalScore(specific, methodology float64) float64 {
	return math.Round(((specific*3)+methodology)/4*10) / 10
}
