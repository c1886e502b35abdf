package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"lifeadmin/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSnapshotLazyCreation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	snap, err := repo.GetOrCreateSnapshot(ctx)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if snap.ID == 0 {
		t.Fatalf("snapshot should be assigned an id")
	}
	if snap.Summary != (core.SummaryTotals{}) {
		t.Fatalf("fresh snapshot should be zeroed: %+v", snap.Summary)
	}

	again, err := repo.GetOrCreateSnapshot(ctx)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if again.ID != snap.ID {
		t.Fatalf("repeated reads must return the same document: %d vs %d", again.ID, snap.ID)
	}
}

func TestSnapshotSaveRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	snap, err := repo.GetOrCreateSnapshot(ctx)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}

	snap.Summary.CurrentBalance = 123.45
	snap.Transactions = []core.Transaction{{
		ID: "t1", Description: "Coffee", Amount: 4.5, Type: core.Expense,
		CreatedAt: time.Now().UTC(),
	}}
	snap.Budgets = []core.Budget{{Category: "Food", Budget: 200, Remaining: 200}}
	if err := repo.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetOrCreateSnapshot(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Summary.CurrentBalance != 123.45 {
		t.Fatalf("balance: got %v", got.Summary.CurrentBalance)
	}
	if len(got.Transactions) != 1 || got.Transactions[0].Description != "Coffee" {
		t.Fatalf("transactions: %+v", got.Transactions)
	}
	if len(got.Budgets) != 1 || got.Budgets[0].Budget != 200 {
		t.Fatalf("budgets: %+v", got.Budgets)
	}
}

func TestWorkoutCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	w := &core.Workout{Name: "morning run", Type: "cardio", DurationMinutes: 30}
	if err := repo.CreateWorkout(ctx, w); err != nil {
		t.Fatalf("create: %v", err)
	}
	if w.ID == "" {
		t.Fatalf("create should assign an id")
	}

	w.DurationMinutes = 45
	if err := repo.UpdateWorkout(ctx, w); err != nil {
		t.Fatalf("update: %v", err)
	}

	list, err := repo.ListWorkouts(ctx, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].DurationMinutes != 45 {
		t.Fatalf("list: %+v", list)
	}

	if err := repo.DeleteWorkout(ctx, w.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var notFound *NotFoundError
	if err := repo.DeleteWorkout(ctx, w.ID); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCountCompletedCoursesBothConventions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	courses := []*core.Course{
		{Title: "status convention", Status: core.CourseCompleted},
		{Title: "flag convention", Completed: true},
		{Title: "in progress", Status: "in_progress"},
	}
	for _, c := range courses {
		if err := repo.CreateCourse(ctx, c); err != nil {
			t.Fatalf("create %q: %v", c.Title, err)
		}
	}

	n, err := repo.CountCompletedCourses(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("completed count: got %d want 2", n)
	}
}

func TestCountWorkoutsBetweenMatchesEitherDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// created now, but dated inside the window
	dated := &core.Workout{Name: "dated", Date: time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)}
	if err := repo.CreateWorkout(ctx, dated); err != nil {
		t.Fatalf("create dated: %v", err)
	}
	undated := &core.Workout{Name: "undated"}
	if err := repo.CreateWorkout(ctx, undated); err != nil {
		t.Fatalf("create undated: %v", err)
	}

	from := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.February, 28, 23, 59, 59, 0, time.UTC)
	n, err := repo.CountWorkoutsBetween(ctx, from, to)
	if err != nil {
		t.Fatalf("count between: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected only the dated workout in range, got %d", n)
	}
}

func TestRecentCompletedCoursesOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	older := &core.Course{Title: "older", Completed: true, CompletedAt: time.Now().Add(-2 * time.Hour)}
	newer := &core.Course{Title: "newer", Completed: true, CompletedAt: time.Now().Add(-time.Hour)}
	for _, c := range []*core.Course{older, newer} {
		if err := repo.CreateCourse(ctx, c); err != nil {
			t.Fatalf("create %q: %v", c.Title, err)
		}
	}

	got, err := repo.RecentCompletedCourses(ctx, 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 || got[0].Title != "newer" {
		t.Fatalf("expected newest first: %+v", got)
	}
}
