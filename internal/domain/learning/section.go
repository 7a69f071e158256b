package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Section is one lesson/video unit of a course and the unit of progress and
// quiz tracking. Chapters and Questions hold authored or provider JSON as-is;
// readers normalize/sanitize before use.
type Section struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_section_course_position" json:"course_id"`
	Course      *Course        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Position    int            `gorm:"column:position;not null;default:0;index:idx_section_course_position" json:"position"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description string         `gorm:"column:description;type:text" json:"description,omitempty"`
	Transcript  string         `gorm:"column:transcript;type:text" json:"-"`
	VideoID     string         `gorm:"column:video_id" json:"video_id,omitempty"`
	Chapters    datatypes.JSON `gorm:"column:chapters;type:jsonb" json:"chapters,omitempty"`
	Questions   datatypes.JSON `gorm:"column:questions;type:jsonb" json:"-"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Section) TableName() string { return "section" }

func (s *Section) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
