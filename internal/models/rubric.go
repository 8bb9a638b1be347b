package models

// RubricRow is one scored checklist item of an exercise-specific grid.
type RubricRow struct {
	ExerciseSlug         string  `gorm:"column:exercise_slug;size:128;index;not null" json:"exercise_slug"`
	PartTitleExpected    string  `gorm:"column:part_title_expected;type:text" json:"part_title_expected"`
	SubpartTitleExpected string  `gorm:"column:subpart_title_expected;type:text" json:"subpart_title_expected"`
	Scope                string  `gorm:"column:scope;type:text" json:"scope"`
	Subsection           string  `gorm:"column:subsection;type:text" json:"subsection"`
	ItemLabel            string  `gorm:"column:item_label;type:text" json:"item_label"`
	PointsMax            float64 `gorm:"column:points_max" json:"points_max"`
	OrderBucket          int     `gorm:"column:order_bucket" json:"order_bucket"`
	Version              string  `gorm:"column:version;size:64" json:"version"`
}

// TableName overrides the default table name.
func (RubricRow) TableName() string {
	return "exercise_rubrics"
}
