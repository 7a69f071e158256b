package learning

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursestream-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursestream-backend/internal/domain"
)

func TestSectionProgressRepoUpsertIsKeyedByUserAndSection(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSectionProgressRepo(db, testutil.Logger(t))

	course := testutil.SeedCourse(t, ctx, db, "go-basics")
	section := testutil.SeedSection(t, ctx, db, course.ID, 0, "")
	userID := uuid.New()

	first, err := repo.Upsert(ctx, nil, &types.SectionProgress{
		UserID:             userID,
		CourseID:           course.ID,
		SectionID:          section.ID,
		ProgressPercentage: 25,
		LastWatchedAt:      time.Now(),
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if first.ProgressPercentage != 25 || first.Completed {
		t.Fatalf("unexpected first row: %+v", first)
	}

	score, passed := 80, true
	second, err := repo.Upsert(ctx, nil, &types.SectionProgress{
		UserID:             userID,
		CourseID:           course.ID,
		SectionID:          section.ID,
		ProgressPercentage: 100,
		Completed:          true,
		QuizScore:          &score,
		QuizPassed:         &passed,
		LastWatchedAt:      time.Now(),
	})
	if err != nil {
		t.Fatalf("Upsert second: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same row id, got %s vs %s", second.ID, first.ID)
	}
	if second.ProgressPercentage != 100 || !second.Completed || second.QuizScore == nil || *second.QuizScore != 80 {
		t.Fatalf("unexpected second row: %+v", second)
	}

	rows, err := repo.ListByUserAndCourse(ctx, nil, userID, course.ID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListByUserAndCourse: err=%v len=%d", err, len(rows))
	}

	if err := repo.Delete(ctx, nil, userID, section.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, err := repo.Get(ctx, nil, userID, section.ID); err != nil || got != nil {
		t.Fatalf("expected no row after delete, got %+v err=%v", got, err)
	}
}

func TestSectionRepoListByCourseIDOrdersByPosition(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSectionRepo(db, testutil.Logger(t))

	course := testutil.SeedCourse(t, ctx, db, "ordered")
	testutil.SeedSection(t, ctx, db, course.ID, 2, "")
	testutil.SeedSection(t, ctx, db, course.ID, 0, "")
	testutil.SeedSection(t, ctx, db, course.ID, 1, "")

	rows, err := repo.ListByCourseID(ctx, nil, course.ID)
	if err != nil {
		t.Fatalf("ListByCourseID: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if row.Position != i {
			t.Fatalf("row %d has position %d", i, row.Position)
		}
	}
}

func TestCourseRepoListPublished(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewCourseRepo(db, testutil.Logger(t))

	testutil.SeedCourse(t, ctx, db, "visible")
	hidden := &types.Course{Slug: "hidden", Title: "Hidden"}
	if _, err := repo.Create(ctx, nil, []*types.Course{hidden}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.ListPublished(ctx, nil)
	if err != nil || len(rows) != 1 || rows[0].Slug != "visible" {
		t.Fatalf("ListPublished: err=%v rows=%v", err, rows)
	}
	if got, err := repo.GetByID(ctx, nil, hidden.ID); err != nil || got == nil {
		t.Fatalf("GetByID: %v %v", got, err)
	}
}
