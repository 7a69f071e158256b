package learning

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/coursestream-backend/internal/domain"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

type SectionProgressRepo interface {
	// Upsert inserts the row or overwrites the mutable columns of the existing
	// (user_id, section_id) row.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.SectionProgress) (*types.SectionProgress, error)
	Get(ctx context.Context, tx *gorm.DB, userID, sectionID uuid.UUID) (*types.SectionProgress, error)
	ListByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) ([]*types.SectionProgress, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, sectionID uuid.UUID) error
}

type sectionProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionProgressRepo(db *gorm.DB, baseLog *logger.Logger) SectionProgressRepo {
	return &sectionProgressRepo{db: db, log: baseLog.With("repo", "SectionProgressRepo")}
}

func (r *sectionProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.SectionProgress) (*types.SectionProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil || row.UserID == uuid.Nil || row.SectionID == uuid.Nil {
		return nil, errors.New("upsert: missing user_id/section_id")
	}
	err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "section_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"course_id",
				"progress_percentage",
				"completed",
				"quiz_score",
				"quiz_passed",
				"last_watched_at",
				"updated_at",
			}),
		}).
		Create(row).Error
	if err != nil {
		return nil, mapWriteError(err)
	}
	return r.Get(ctx, transaction, row.UserID, row.SectionID)
}

func (r *sectionProgressRepo) Get(ctx context.Context, tx *gorm.DB, userID, sectionID uuid.UUID) (*types.SectionProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || sectionID == uuid.Nil {
		return nil, nil
	}
	var out types.SectionProgress
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND section_id = ?", userID, sectionID).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *sectionProgressRepo) ListByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) ([]*types.SectionProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SectionProgress
	if userID == uuid.Nil || courseID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("last_watched_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sectionProgressRepo) Delete(ctx context.Context, tx *gorm.DB, userID, sectionID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || sectionID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("user_id = ? AND section_id = ?", userID, sectionID).
		Delete(&types.SectionProgress{}).Error
}
