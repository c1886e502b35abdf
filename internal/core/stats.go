package core

import (
	"fmt"
	"math"
	"sort"
	"time"
)

const (
	ActivityWorkout = "workout"
	ActivityCourse  = "course"

	// ActivityFeedCap bounds the merged feed regardless of collection sizes.
	ActivityFeedCap = 10
	// recentPerSource is how many records each source contributes before the merge.
	recentPerSource = 5
)

type (
	// DashboardStats are the cross-domain headline counts, recomputed on
	// every request. ActiveUsers is a constant zero placeholder; user
	// tracking is out of scope.
	DashboardStats struct {
		TotalWorkouts    int64   `json:"totalWorkouts"`
		CoursesCompleted int64   `json:"coursesCompleted"`
		MonthlyRevenue   float64 `json:"monthlyRevenue"`
		ActiveUsers      int64   `json:"activeUsers"`
	}

	// MonthlyChange holds per-metric percentage deltas against the
	// previous calendar month.
	MonthlyChange struct {
		Workouts int `json:"workouts"`
		Courses  int `json:"courses"`
		Revenue  int `json:"revenue"`
		Users    int `json:"users"`
	}

	// ActivityEntry is one row of the derived activity feed.
	ActivityEntry struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Timestamp   time.Time `json:"timestamp"`
		Type        string    `json:"type"`
	}
)

// PercentChange compares a current figure against a previous-month baseline.
// A zero baseline yields +100 when anything happened this period and 0 in the
// all-zero-history case, so the result is always defined.
func PercentChange(current, baseline float64) int {
	if baseline == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round((current - baseline) / baseline * 100))
}

// PreviousMonthRange returns the first and last moment of the calendar month
// before the one containing now. January wraps into December of the prior
// year via time.Date normalization.
func PreviousMonthRange(now time.Time) (start, end time.Time) {
	y, m, _ := now.Date()
	start = time.Date(y, m-1, 1, 0, 0, 0, 0, now.Location())
	end = time.Date(y, m, 1, 0, 0, 0, 0, now.Location()).Add(-time.Nanosecond)
	return start, end
}

// WorkoutActivity projects a workout into its feed representation. The
// timestamp prefers CreatedAt and falls back to the workout's own date.
func WorkoutActivity(w Workout) ActivityEntry {
	ts := w.CreatedAt
	if ts.IsZero() {
		ts = w.Date
	}
	return ActivityEntry{
		Title:       "Workout Completed",
		Description: fmt.Sprintf("Completed workout: %s", w.Label()),
		Timestamp:   ts,
		Type:        ActivityWorkout,
	}
}

// CourseActivity projects a completed course into its feed representation.
// The timestamp prefers the completion time and falls back to UpdatedAt.
func CourseActivity(c Course) ActivityEntry {
	ts := c.CompletedAt
	if ts.IsZero() {
		ts = c.UpdatedAt
	}
	return ActivityEntry{
		Title:       "Course Completed",
		Description: fmt.Sprintf("Completed course: %s", c.Title),
		Timestamp:   ts,
		Type:        ActivityCourse,
	}
}

// MergeActivities concatenates the per-source entries (workouts first),
// re-sorts descending by timestamp and truncates to the feed cap. The sort is
// stable, so exact timestamp ties resolve by concatenation order.
func MergeActivities(workouts []Workout, courses []Course) []ActivityEntry {
	merged := make([]ActivityEntry, 0, len(workouts)+len(courses))
	for _, w := range workouts {
		merged = append(merged, WorkoutActivity(w))
	}
	for _, c := range courses {
		merged = append(merged, CourseActivity(c))
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})
	if len(merged) > ActivityFeedCap {
		merged = merged[:ActivityFeedCap]
	}
	return merged
}

// PageSlice applies offset paging to the already-capped feed. Out-of-range
// pages yield an empty slice, never an error.
func PageSlice(entries []ActivityEntry, page, limit int) (paged []ActivityEntry, totalPages int) {
	if limit <= 0 {
		limit = ActivityFeedCap
	}
	if page <= 0 {
		page = 1
	}
	totalPages = (len(entries) + limit - 1) / limit
	offset := (page - 1) * limit
	if offset >= len(entries) {
		return []ActivityEntry{}, totalPages
	}
	endIdx := offset + limit
	if endIdx > len(entries) {
		endIdx = len(entries)
	}
	return entries[offset:endIdx], totalPages
}
