package models

// MethodologyDocument is the general grading guide. Exactly one row is expected to be current.
type MethodologyDocument struct {
	Version   string `gorm:"column:version;size:64;not null" json:"version"`
	Content   string `gorm:"column:content;type:text;not null" json:"content"`
	Format    string `gorm:"column:format;size:32" json:"format"`
	IsCurrent bool   `gorm:"column:is_current;not null;default:false" json:"-"`
}

// TableName overrides the default table name.
func (MethodologyDocument) TableName() string {
	return "methodology_docs"
}

// MethodologyCriterion is one weighted criterion of a methodology version.
type MethodologyCriterion struct {
	Version    string  `gorm:"column:version;size:64;index;not null" json:"-"`
	OrderIndex int     `gorm:"column:order_index;not null" json:"order_index"`
	Label      string  `gorm:"column:label;type:text;not null" json:"label"`
	MaxPoints  float64 `gorm:"column:max_points;not null" json:"max_points"`
}

// TableName overrides the default table name.
func (MethodologyCriterion) TableName() string {
	return "methodology_criteria"
}
