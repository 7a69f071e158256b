package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursestream-backend/internal/data/repos"
	types "github.com/yungbote/coursestream-backend/internal/domain"
	"github.com/yungbote/coursestream-backend/internal/platform/apierr"
	"github.com/yungbote/coursestream-backend/internal/platform/cache"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

const catalogCacheTTL = 5 * time.Minute

// CatalogService is the read side of courses and their ordered sections.
type CatalogService interface {
	ListCourses(ctx context.Context) ([]*types.Course, error)
	GetCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error)
	ListSections(ctx context.Context, courseID uuid.UUID) ([]*types.Section, error)
	// GetSection returns the full row, including transcript and stored questions.
	GetSection(ctx context.Context, sectionID uuid.UUID) (*types.Section, error)
	NextSection(ctx context.Context, courseID, sectionID uuid.UUID) (*types.Section, error)
	Invalidate(ctx context.Context, courseID uuid.UUID)
}

type catalogService struct {
	db       *gorm.DB
	log      *logger.Logger
	cache    cache.Cache
	courses  repos.CourseRepo
	sections repos.SectionRepo
}

func NewCatalogService(db *gorm.DB, baseLog *logger.Logger, c cache.Cache, courses repos.CourseRepo, sections repos.SectionRepo) CatalogService {
	return &catalogService{
		db:       db,
		log:      baseLog.With("service", "CatalogService"),
		cache:    c,
		courses:  courses,
		sections: sections,
	}
}

func sectionsKey(courseID uuid.UUID) string {
	return fmt.Sprintf("catalog:course:%s:sections", courseID)
}

func (s *catalogService) ListCourses(ctx context.Context) ([]*types.Course, error) {
	rows, err := s.courses.ListPublished(ctx, nil)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "course_list_failed", err)
	}
	return rows, nil
}

func (s *catalogService) GetCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	row, err := s.courses.GetByID(ctx, nil, courseID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "course_load_failed", err)
	}
	if row == nil || !row.Published {
		return nil, apierr.New(http.StatusNotFound, "course_not_found", nil)
	}
	return row, nil
}

func (s *catalogService) ListSections(ctx context.Context, courseID uuid.UUID) ([]*types.Section, error) {
	key := sectionsKey(courseID)
	if s.cache != nil {
		var cached []*types.Section
		if err := cache.GetJSON(ctx, s.cache, key, &cached); err == nil {
			return cached, nil
		}
	}
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	rows, err := s.sections.ListByCourseID(ctx, nil, courseID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "section_list_failed", err)
	}
	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, rows, catalogCacheTTL); err != nil {
			s.log.Debug("section cache write failed", "course_id", courseID.String(), "error", err)
		}
	}
	return rows, nil
}

func (s *catalogService) GetSection(ctx context.Context, sectionID uuid.UUID) (*types.Section, error) {
	row, err := s.sections.GetByID(ctx, nil, sectionID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "section_load_failed", err)
	}
	if row == nil {
		return nil, apierr.New(http.StatusNotFound, "section_not_found", nil)
	}
	return row, nil
}

// NextSection returns the section after sectionID in course order, or nil
// when sectionID is the last one (or not part of the course).
func (s *catalogService) NextSection(ctx context.Context, courseID, sectionID uuid.UUID) (*types.Section, error) {
	rows, err := s.ListSections(ctx, courseID)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if row.ID == sectionID && i+1 < len(rows) {
			return rows[i+1], nil
		}
	}
	return nil, nil
}

func (s *catalogService) Invalidate(ctx context.Context, courseID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, sectionsKey(courseID)); err != nil {
		s.log.Debug("section cache invalidation failed", "course_id", courseID.String(), "error", err)
	}
}
