package models

import "time"

// SubjectLevel enumerates the academic levels a subject can target.
type SubjectLevel string

const (
	LevelElementary   SubjectLevel = "Elementary"
	LevelMiddleSchool SubjectLevel = "Middle School"
	LevelHighSchool   SubjectLevel = "High School"
	LevelCollege      SubjectLevel = "College"
)

// SubjectCategory enumerates the taught topic areas.
type SubjectCategory string

const (
	CategoryMathematics   SubjectCategory = "Mathematics"
	CategoryScience       SubjectCategory = "Science"
	CategoryLanguages     SubjectCategory = "Languages"
	CategoryArts          SubjectCategory = "Arts"
	CategorySocialStudies SubjectCategory = "Social Studies"
	CategoryTestPrep      SubjectCategory = "Test Prep"
)

// SubjectLevels lists every accepted level value.
func SubjectLevels() []SubjectLevel {
	return []SubjectLevel{LevelElementary, LevelMiddleSchool, LevelHighSchool, LevelCollege}
}

// SubjectCategories lists every accepted category value.
func SubjectCategories() []SubjectCategory {
	return []SubjectCategory{CategoryMathematics, CategoryScience, CategoryLanguages, CategoryArts, CategorySocialStudies, CategoryTestPrep}
}

// Valid reports whether the level is one of the enumerated values.
func (l SubjectLevel) Valid() bool {
	for _, v := range SubjectLevels() {
		if l == v {
			return true
		}
	}
	return false
}

// Valid reports whether the category is one of the enumerated values.
func (c SubjectCategory) Valid() bool {
	for _, v := range SubjectCategories() {
		if c == v {
			return true
		}
	}
	return false
}

// Subject represents a taught topic with a level and category.
type Subject struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Level       SubjectLevel    `db:"level" json:"level"`
	Category    SubjectCategory `db:"category" json:"category"`
	ImageURL    *string         `db:"image_url" json:"image_url,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}
