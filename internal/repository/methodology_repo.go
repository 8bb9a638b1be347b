package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/crfpa-grader-api/internal/models"
	"github.com/noah-isme/crfpa-grader-api/pkg/supabase"
)

// ErrNotSingleRow mirrors the PostgREST single-object error when the current document is ambiguous or absent.
var ErrNotSingleRow = errors.New("JSON object requested, multiple (or no) rows returned")

// MethodologyRepository reads the current methodology document and its criteria.
type MethodologyRepository interface {
	Current(ctx context.Context) (models.MethodologyDocument, error)
	Criteria(ctx context.Context, version string) ([]models.MethodologyCriterion, error)
}

// NewMethodologyRepository constructs a methodology repository backed by gorm.
func NewMethodologyRepository(db *gorm.DB) MethodologyRepository {
	return &methodologyRepository{db: db}
}

type methodologyRepository struct {
	db *gorm.DB
}

func (r *methodologyRepository) Current(ctx context.Context) (models.MethodologyDocument, error) {
	var docs []models.MethodologyDocument
	err := r.db.WithContext(ctx).
		Select("version", "content", "format").
		Where("is_current = ?", true).
		Limit(2).
		Find(&docs).Error
	if err != nil {
		return models.MethodologyDocument{}, err
	}
	if len(docs) != 1 {
		return models.MethodologyDocument{}, ErrNotSingleRow
	}
	return docs[0], nil
}

func (r *methodologyRepository) Criteria(ctx context.Context, version string) ([]models.MethodologyCriterion, error) {
	criteria := make([]models.MethodologyCriterion, 0)
	err := r.db.WithContext(ctx).
		Select("order_index", "label", "max_points").
		Where("version = ?", version).
		Order("order_index ASC").
		Find(&criteria).Error
	if err != nil {
		return nil, err
	}
	return criteria, nil
}

// NewSupabaseMethodologyRepository constructs a methodology repository backed by the Supabase REST API.
func NewSupabaseMethodologyRepository(client *supabase.Client) MethodologyRepository {
	return &supabaseMethodologyRepository{client: client}
}

type supabaseMethodologyRepository struct {
	client *supabase.Client
}

func (r *supabaseMethodologyRepository) Current(ctx context.Context) (models.MethodologyDocument, error) {
	var doc models.MethodologyDocument
	err := r.client.From("methodology_docs").
		Select("version", "content", "format").
		Eq("is_current", true).
		Single().
		Execute(ctx, &doc)
	if err != nil {
		return models.MethodologyDocument{}, err
	}
	return doc, nil
}

func (r *supabaseMethodologyRepository) Criteria(ctx context.Context, version string) ([]models.MethodologyCriterion, error) {
	criteria := make([]models.MethodologyCriterion, 0)
	err := r.client.From("methodology_criteria").
		Select("order_index", "label", "max_points").
		Eq("version", version).
		Order("order_index", true).
		Execute(ctx, &criteria)
	if err != nil {
		return nil, err
	}
	if criteria == nil {
		criteria = make([]models.MethodologyCriterion, 0)
	}
	return criteria, nil
}
