package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SEO carries the per-project metadata sub-object. All three fields are
// optional on input but the sub-object itself is always present on a stored
// project, with each field defaulted to its empty value.
type SEO struct {
	Title       string                      `json:"title"`
	Description string                      `json:"description"`
	Keywords    datatypes.JSONSlice[string] `json:"keywords"`
}

// Project represents a portfolio case study.
type Project struct {
	ID              uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Title           string                      `json:"title" gorm:"type:text;not null"`
	Description     string                      `json:"description" gorm:"type:text;not null"`
	LongDescription string                      `json:"longDescription" gorm:"type:text"`
	Experience      string                      `json:"experience" gorm:"type:text"`
	Image           string                      `json:"image" gorm:"type:text"`
	Tags            datatypes.JSONSlice[string] `json:"tags"`
	TechStack       datatypes.JSONSlice[string] `json:"techStack"`
	DemoURL         string                      `json:"demoUrl" gorm:"type:text"`
	SourceURL       string                      `json:"sourceUrl" gorm:"type:text"`
	ShowDemo        bool                        `json:"showDemo"`
	ShowSource      bool                        `json:"showSource"`
	SEO             SEO                         `json:"seo" gorm:"embedded;embeddedPrefix:seo_"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}

// BeforeCreate assigns an id when the caller did not, and normalizes the
// list fields so a stored project never carries a null tags/techStack/keywords
// column.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Normalize()
	return nil
}

// Normalize replaces nil list fields with empty slices. Tags being non-null
// is an invariant of stored projects; minimum length is enforced at the
// handler layer on creation only.
func (p *Project) Normalize() {
	if p.Tags == nil {
		p.Tags = datatypes.JSONSlice[string]{}
	}
	if p.TechStack == nil {
		p.TechStack = datatypes.JSONSlice[string]{}
	}
	if p.SEO.Keywords == nil {
		p.SEO.Keywords = datatypes.JSONSlice[string]{}
	}
}
