package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursestream-backend/internal/data/repos"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

type Repos struct {
	Course          repos.CourseRepo
	Section         repos.SectionRepo
	SectionProgress repos.SectionProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Course:          repos.NewCourseRepo(db, log),
		Section:         repos.NewSectionRepo(db, log),
		SectionProgress: repos.NewSectionProgressRepo(db, log),
	}
}
