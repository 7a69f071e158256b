package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursestream-backend/internal/data/repos/learning"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

type CourseRepo = learning.CourseRepo
type SectionRepo = learning.SectionRepo
type SectionProgressRepo = learning.SectionProgressRepo

var ErrSectionNotFound = learning.ErrSectionNotFound

func NewCourseRepo(db *gorm.DB, log *logger.Logger) CourseRepo {
	return learning.NewCourseRepo(db, log)
}

func NewSectionRepo(db *gorm.DB, log *logger.Logger) SectionRepo {
	return learning.NewSectionRepo(db, log)
}

func NewSectionProgressRepo(db *gorm.DB, log *logger.Logger) SectionProgressRepo {
	return learning.NewSectionProgressRepo(db, log)
}
