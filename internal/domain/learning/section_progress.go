package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SectionProgress is one row per (user, section). Rows are upserted on every
// write and only removed by an explicit reset.
type SectionProgress struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_section_progress_user_section" json:"user_id"`
	CourseID           uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	SectionID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_section_progress_user_section" json:"section_id"`
	Section            *Section  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SectionID;references:ID" json:"-"`
	ProgressPercentage int       `gorm:"column:progress_percentage;not null;default:0" json:"progress_percentage"`
	Completed          bool      `gorm:"column:completed;not null;default:false" json:"completed"`
	QuizScore          *int      `gorm:"column:quiz_score" json:"quiz_score,omitempty"`
	QuizPassed         *bool     `gorm:"column:quiz_passed" json:"quiz_passed,omitempty"`
	LastWatchedAt      time.Time `gorm:"column:last_watched_at;not null" json:"last_watched_at"`
	CreatedAt          time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (SectionProgress) TableName() string { return "section_progress" }

func (p *SectionProgress) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
