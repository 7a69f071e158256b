package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursestream-backend/internal/data/repos"
	repolearning "github.com/yungbote/coursestream-backend/internal/data/repos/learning"
	types "github.com/yungbote/coursestream-backend/internal/domain"
	"github.com/yungbote/coursestream-backend/internal/platform/apierr"
	"github.com/yungbote/coursestream-backend/internal/platform/cache"
	"github.com/yungbote/coursestream-backend/internal/platform/clock"
	"github.com/yungbote/coursestream-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

const progressCacheTTL = 2 * time.Minute

type ProgressUpdate struct {
	UserID             uuid.UUID
	CourseID           uuid.UUID
	SectionID          uuid.UUID
	ProgressPercentage int
	QuizScore          *int
	QuizPassed         *bool
}

type ProgressService interface {
	Save(ctx context.Context, in ProgressUpdate) (*types.SectionProgress, error)
	Get(ctx context.Context, userID, sectionID uuid.UUID) (*types.SectionProgress, error)
	ListForCourse(ctx context.Context, userID, courseID uuid.UUID) ([]*types.SectionProgress, error)
	Reset(ctx context.Context, userID, sectionID uuid.UUID) error
	InvalidateUser(ctx context.Context, userID uuid.UUID)
}

type progressService struct {
	db       *gorm.DB
	log      *logger.Logger
	clk      clock.Clock
	cache    cache.Cache
	sections repos.SectionRepo
	progress repos.SectionProgressRepo
}

func NewProgressService(db *gorm.DB, baseLog *logger.Logger, clk clock.Clock, c cache.Cache, sections repos.SectionRepo, progress repos.SectionProgressRepo) ProgressService {
	if clk == nil {
		clk = clock.Real()
	}
	return &progressService{
		db:       db,
		log:      baseLog.With("service", "ProgressService"),
		clk:      clk,
		cache:    c,
		sections: sections,
		progress: progress,
	}
}

func progressKey(userID, sectionID uuid.UUID) string {
	return fmt.Sprintf("progress:%s:%s", userID, sectionID)
}

func progressUserPrefix(userID uuid.UUID) string {
	return fmt.Sprintf("progress:%s:", userID)
}

func progressCourseKey(userID, courseID uuid.UUID) string {
	return fmt.Sprintf("progress:%s:course:%s", userID, courseID)
}

func actingUser(ctx context.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	return rd, nil
}

// canRead allows the owner and admins.
func canRead(rd *ctxutil.RequestData, userID uuid.UUID) error {
	if rd.UserID == userID || rd.IsAdmin() {
		return nil
	}
	return apierr.New(http.StatusForbidden, "forbidden", fmt.Errorf("user %s may not read progress of another user", rd.UserID))
}

// Save upserts the (user, section) row. The stored percentage never goes
// down, completed only turns on through a passed quiz and then stays on, and
// quiz fields are overwritten only when present.
func (s *progressService) Save(ctx context.Context, in ProgressUpdate) (*types.SectionProgress, error) {
	rd, err := actingUser(ctx)
	if err != nil {
		return nil, err
	}
	if in.UserID == uuid.Nil {
		in.UserID = rd.UserID
	}
	if in.UserID != rd.UserID {
		return nil, apierr.New(http.StatusForbidden, "forbidden_user_mismatch",
			fmt.Errorf("acting user %s cannot write progress for %s", rd.UserID, in.UserID))
	}
	if in.SectionID == uuid.Nil || in.CourseID == uuid.Nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_ids", fmt.Errorf("missing course_id/section_id"))
	}
	if in.QuizScore != nil && (*in.QuizScore < 0 || *in.QuizScore > 100) {
		return nil, apierr.New(http.StatusBadRequest, "invalid_quiz_score", fmt.Errorf("quiz_score out of range: %d", *in.QuizScore))
	}
	pct := clampPercent(in.ProgressPercentage)

	var saved *types.SectionProgress
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sec, err := s.sections.GetByID(ctx, tx, in.SectionID)
		if err != nil {
			return err
		}
		if sec == nil || sec.CourseID != in.CourseID {
			return repolearning.ErrSectionNotFound
		}
		existing, err := s.progress.Get(ctx, tx, in.UserID, in.SectionID)
		if err != nil {
			return err
		}
		row := &types.SectionProgress{
			UserID:             in.UserID,
			CourseID:           in.CourseID,
			SectionID:          in.SectionID,
			ProgressPercentage: pct,
			QuizScore:          in.QuizScore,
			QuizPassed:         in.QuizPassed,
			LastWatchedAt:      s.clk.Now().UTC(),
		}
		if existing != nil {
			if existing.ProgressPercentage > row.ProgressPercentage {
				row.ProgressPercentage = existing.ProgressPercentage
			}
			row.Completed = existing.Completed
			if row.QuizScore == nil {
				row.QuizScore = existing.QuizScore
			}
			if row.QuizPassed == nil {
				row.QuizPassed = existing.QuizPassed
			}
		}
		if in.QuizPassed != nil && *in.QuizPassed {
			row.Completed = true
		}
		saved, err = s.progress.Upsert(ctx, tx, row)
		return err
	})
	if err != nil {
		if errors.Is(err, repolearning.ErrSectionNotFound) {
			return nil, apierr.New(http.StatusNotFound, "section_not_found", err)
		}
		s.log.Warn("progress save failed", "user_id", in.UserID.String(), "section_id", in.SectionID.String(), "error", err)
		return nil, apierr.New(http.StatusInternalServerError, "progress_save_failed", err)
	}
	s.invalidate(ctx, in.UserID, in.CourseID, in.SectionID)
	return saved, nil
}

func (s *progressService) Get(ctx context.Context, userID, sectionID uuid.UUID) (*types.SectionProgress, error) {
	rd, err := actingUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := canRead(rd, userID); err != nil {
		return nil, err
	}
	key := progressKey(userID, sectionID)
	if s.cache != nil {
		var cached types.SectionProgress
		if err := cache.GetJSON(ctx, s.cache, key, &cached); err == nil {
			return &cached, nil
		}
	}
	row, err := s.progress.Get(ctx, nil, userID, sectionID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "progress_load_failed", err)
	}
	if row != nil && s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, row, progressCacheTTL); err != nil {
			s.log.Debug("progress cache write failed", "error", err)
		}
	}
	return row, nil
}

func (s *progressService) ListForCourse(ctx context.Context, userID, courseID uuid.UUID) ([]*types.SectionProgress, error) {
	rd, err := actingUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := canRead(rd, userID); err != nil {
		return nil, err
	}
	key := progressCourseKey(userID, courseID)
	if s.cache != nil {
		var cached []*types.SectionProgress
		if err := cache.GetJSON(ctx, s.cache, key, &cached); err == nil {
			return cached, nil
		}
	}
	rows, err := s.progress.ListByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "progress_load_failed", err)
	}
	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, rows, progressCacheTTL); err != nil {
			s.log.Debug("progress cache write failed", "error", err)
		}
	}
	return rows, nil
}

// Reset deletes the row. Only its owner may do it.
func (s *progressService) Reset(ctx context.Context, userID, sectionID uuid.UUID) error {
	rd, err := actingUser(ctx)
	if err != nil {
		return err
	}
	if rd.UserID != userID {
		return apierr.New(http.StatusForbidden, "forbidden_user_mismatch", fmt.Errorf("user %s may not reset progress of another user", rd.UserID))
	}
	existing, err := s.progress.Get(ctx, nil, userID, sectionID)
	if err != nil {
		return apierr.New(http.StatusInternalServerError, "progress_load_failed", err)
	}
	if existing == nil {
		return nil
	}
	if err := s.progress.Delete(ctx, nil, userID, sectionID); err != nil {
		return apierr.New(http.StatusInternalServerError, "progress_reset_failed", err)
	}
	s.invalidate(ctx, userID, existing.CourseID, sectionID)
	return nil
}

func (s *progressService) invalidate(ctx context.Context, userID, courseID, sectionID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, progressKey(userID, sectionID), progressCourseKey(userID, courseID)); err != nil {
		s.log.Debug("progress cache invalidation failed", "error", err)
	}
}

// InvalidateUser drops every cached progress read of one user.
func (s *progressService) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, progressUserPrefix(userID)); err != nil {
		s.log.Debug("progress cache invalidation failed", "error", err)
	}
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
