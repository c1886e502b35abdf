package core

import (
	"testing"
	"time"
)

func TestPercentChange(t *testing.T) {
	cases := []struct {
		current  float64
		baseline float64
		want     int
	}{
		{0, 0, 0},
		{5, 0, 100},
		{10, 5, 100},
		{5, 10, -50},
		{7, 3, 133},
		{3, 3, 0},
		{0, 4, -100},
	}
	for i, tc := range cases {
		if got := PercentChange(tc.current, tc.baseline); got != tc.want {
			t.Fatalf("case %d: got %d want %d", i, got, tc.want)
		}
	}
}

func TestPreviousMonthRange(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 30, 0, 0, time.UTC)
	start, end := PreviousMonthRange(now)

	if !start.Equal(time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start: %v", start)
	}
	if !end.Before(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("end should precede the current month: %v", end)
	}
	if end.Month() != time.February || end.Day() != 28 {
		t.Fatalf("end should be the last day of February: %v", end)
	}
}

func TestPreviousMonthRangeJanuaryWrap(t *testing.T) {
	now := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	start, end := PreviousMonthRange(now)

	if start.Year() != 2025 || start.Month() != time.December {
		t.Fatalf("expected December 2025 start, got %v", start)
	}
	if end.Year() != 2025 || end.Month() != time.December || end.Day() != 31 {
		t.Fatalf("expected December 2025 end, got %v", end)
	}
}

func TestMergeActivitiesOrderAndCap(t *testing.T) {
	base := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)

	var workouts []Workout
	var courses []Course
	for i := 0; i < 6; i++ {
		workouts = append(workouts, Workout{
			Name:      "run",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		courses = append(courses, Course{
			Title:       "go course",
			Status:      CourseCompleted,
			CompletedAt: base.Add(time.Duration(i)*time.Hour + 30*time.Minute),
		})
	}

	feed := MergeActivities(workouts, courses)
	if len(feed) != ActivityFeedCap {
		t.Fatalf("expected %d entries, got %d", ActivityFeedCap, len(feed))
	}
	for i := 1; i < len(feed); i++ {
		if feed[i].Timestamp.After(feed[i-1].Timestamp) {
			t.Fatalf("feed not sorted descending at %d", i)
		}
	}
}

func TestMergeActivitiesTieKeepsWorkoutsFirst(t *testing.T) {
	ts := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	feed := MergeActivities(
		[]Workout{{Name: "lift", CreatedAt: ts}},
		[]Course{{Title: "sql", Completed: true, CompletedAt: ts}},
	)
	if len(feed) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(feed))
	}
	if feed[0].Type != ActivityWorkout || feed[1].Type != ActivityCourse {
		t.Fatalf("tie should keep workouts first: %v, %v", feed[0].Type, feed[1].Type)
	}
}

func TestActivityDescriptions(t *testing.T) {
	w := WorkoutActivity(Workout{Name: "morning run", Type: "cardio"})
	if w.Description != "Completed workout: cardio" {
		t.Fatalf("unexpected workout description: %q", w.Description)
	}
	c := CourseActivity(Course{Title: "Go Basics"})
	if c.Description != "Completed course: Go Basics" {
		t.Fatalf("unexpected course description: %q", c.Description)
	}
}

func TestPageSlice(t *testing.T) {
	entries := make([]ActivityEntry, 7)

	cases := []struct {
		page, limit    int
		wantLen, wantP int
	}{
		{1, 3, 3, 3},
		{3, 3, 1, 3},
		{4, 3, 0, 3},
		{0, 0, 7, 1},  // defaults: page 1, limit 10
		{-2, -5, 7, 1},
	}
	for i, tc := range cases {
		paged, total := PageSlice(entries, tc.page, tc.limit)
		if len(paged) != tc.wantLen {
			t.Fatalf("case %d len: got %d want %d", i, len(paged), tc.wantLen)
		}
		if total != tc.wantP {
			t.Fatalf("case %d pages: got %d want %d", i, total, tc.wantP)
		}
	}
}
