package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lifeadmin/internal/core"

	"golang.org/x/sync/errgroup"
)

// ActivityStore is the query port over the workout and course collections.
type ActivityStore interface {
	CountWorkouts(ctx context.Context) (int64, error)
	CountWorkoutsBetween(ctx context.Context, from, to time.Time) (int64, error)
	RecentWorkouts(ctx context.Context, limit int) ([]core.Workout, error)
	CountCompletedCourses(ctx context.Context) (int64, error)
	CountCompletedCoursesBetween(ctx context.Context, from, to time.Time) (int64, error)
	RecentCompletedCourses(ctx context.Context, limit int) ([]core.Course, error)
}

// DashboardService computes the cross-domain overview: headline counts,
// month-over-month deltas, and the merged activity feed. Nothing is cached;
// every request recomputes from the collections and the snapshot.
type DashboardService struct {
	activities ActivityStore
	snapshots  SnapshotStore
	now        func() time.Time
}

func NewDashboardService(activities ActivityStore, snapshots SnapshotStore) *DashboardService {
	return &DashboardService{
		activities: activities,
		snapshots:  snapshots,
		now:        time.Now,
	}
}

// DashboardOverview is the dashboard read endpoint's response body.
type DashboardOverview struct {
	Stats            core.DashboardStats  `json:"stats"`
	MonthlyChange    core.MonthlyChange   `json:"monthlyChange"`
	RecentActivities []core.ActivityEntry `json:"recentActivities"`
	TotalPages       int                  `json:"totalPages"`
}

// Overview aggregates the lifetime counts, the snapshot's monthly revenue
// and the previous-calendar-month baselines. Any core query failure aborts
// the whole aggregation; only the activity-feed sub-step degrades locally
// to an empty list.
func (s *DashboardService) Overview(ctx context.Context, page, limit int) (*DashboardOverview, error) {
	var (
		totalWorkouts    int64
		coursesCompleted int64
		snap             *core.FinanceSnapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalWorkouts, err = s.activities.CountWorkouts(gctx)
		return err
	})
	g.Go(func() (err error) {
		coursesCompleted, err = s.activities.CountCompletedCourses(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap, err = s.snapshots.GetOrCreateSnapshot(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	// The snapshot's monthlyIncome is a running total since the last
	// reset, not a true calendar-month aggregate.
	monthlyRevenue := snap.Summary.MonthlyIncome

	prevStart, prevEnd := core.PreviousMonthRange(s.now())

	var prevWorkouts, prevCourses int64
	bg, bctx := errgroup.WithContext(ctx)
	bg.Go(func() (err error) {
		prevWorkouts, err = s.activities.CountWorkoutsBetween(bctx, prevStart, prevEnd)
		return err
	})
	bg.Go(func() (err error) {
		prevCourses, err = s.activities.CountCompletedCoursesBetween(bctx, prevStart, prevEnd)
		return err
	})
	if err := bg.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard baselines: %w", err)
	}
	prevRevenue := incomeBetween(snap.Transactions, prevStart, prevEnd)

	feed := s.recentActivities(ctx)
	paged, totalPages := core.PageSlice(feed, page, limit)

	return &DashboardOverview{
		Stats: core.DashboardStats{
			TotalWorkouts:    totalWorkouts,
			CoursesCompleted: coursesCompleted,
			MonthlyRevenue:   monthlyRevenue,
			ActiveUsers:      0,
		},
		MonthlyChange: core.MonthlyChange{
			Workouts: core.PercentChange(float64(totalWorkouts), float64(prevWorkouts)),
			Courses:  core.PercentChange(float64(coursesCompleted), float64(prevCourses)),
			Revenue:  core.PercentChange(monthlyRevenue, prevRevenue),
			Users:    0,
		},
		RecentActivities: paged,
		TotalPages:       totalPages,
	}, nil
}

// recentActivities builds the merged feed. Failures here are locally
// recoverable: the dashboard still responds, with an empty activity list.
func (s *DashboardService) recentActivities(ctx context.Context) []core.ActivityEntry {
	workouts, err := s.activities.RecentWorkouts(ctx, 5)
	if err != nil {
		slog.WarnContext(ctx, "Activity feed degraded to empty", "error", err, "source", "workouts")
		return []core.ActivityEntry{}
	}
	courses, err := s.activities.RecentCompletedCourses(ctx, 5)
	if err != nil {
		slog.WarnContext(ctx, "Activity feed degraded to empty", "error", err, "source", "courses")
		return []core.ActivityEntry{}
	}
	return core.MergeActivities(workouts, courses)
}

// incomeBetween sums income transactions whose calendar date or insertion
// time falls inside the range. Both date conventions are honored, matching
// the dual-field filters used for workouts and courses.
func incomeBetween(transactions []core.Transaction, from, to time.Time) float64 {
	var total float64
	for _, t := range transactions {
		if t.Type != core.Income {
			continue
		}
		if txDateInRange(t, from, to) {
			total += t.Amount
		}
	}
	return total
}

func txDateInRange(t core.Transaction, from, to time.Time) bool {
	if d, err := time.ParseInLocation("2006-01-02", t.Date, from.Location()); err == nil {
		return !d.Before(from) && !d.After(to)
	}
	if t.CreatedAt.IsZero() {
		return false
	}
	return !t.CreatedAt.Before(from) && !t.CreatedAt.After(to)
}
