package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/crfpa-grader-api/internal/models"
	"github.com/noah-isme/crfpa-grader-api/pkg/supabase"
)

var rubricColumns = []string{
	"exercise_slug",
	"part_title_expected",
	"subpart_title_expected",
	"scope",
	"subsection",
	"item_label",
	"points_max",
	"order_bucket",
	"version",
}

// RubricRepository reads exercise-specific grading rows.
type RubricRepository interface {
	ListByExercise(ctx context.Context, slug string) ([]models.RubricRow, error)
}

// NewRubricRepository constructs a rubric repository backed by gorm.
func NewRubricRepository(db *gorm.DB) RubricRepository {
	return &rubricRepository{db: db}
}

type rubricRepository struct {
	db *gorm.DB
}

func (r *rubricRepository) ListByExercise(ctx context.Context, slug string) ([]models.RubricRow, error) {
	rows := make([]models.RubricRow, 0)
	err := r.db.WithContext(ctx).
		Select(rubricColumns).
		Where("exercise_slug = ?", slug).
		Order("order_bucket ASC").
		Order("subsection ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = make([]models.RubricRow, 0)
	}
	return rows, nil
}

// NewSupabaseRubricRepository constructs a rubric repository backed by the Supabase REST API.
func NewSupabaseRubricRepository(client *supabase.Client) RubricRepository {
	return &supabaseRubricRepository{client: client}
}

type supabaseRubricRepository struct {
	client *supabase.Client
}

func (r *supabaseRubricRepository) ListByExercise(ctx context.Context, slug string) ([]models.RubricRow, error) {
	rows := make([]models.RubricRow, 0)
	err := r.client.From("exercise_rubrics").
		Select(rubricColumns...).
		Eq("exercise_slug", slug).
		Order("order_bucket", true).
		Order("subsection", true).
		Execute(ctx, &rows)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = make([]models.RubricRow, 0)
	}
	return rows, nil
}
