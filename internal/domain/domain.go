package domain

import (
	"github.com/yungbote/coursestream-backend/internal/domain/learning"
)

type (
	Course          = learning.Course
	Section         = learning.Section
	SectionProgress = learning.SectionProgress
)

// Models lists every table for auto-migration, parents first.
func Models() []any {
	return []any{
		&learning.Course{},
		&learning.Section{},
		&learning.SectionProgress{},
	}
}
