package core

import (
	"errors"
	"testing"
)

func TestTransactionInputValidate(t *testing.T) {
	good := TransactionInput{Description: "coffee", Amount: 4.5, Type: Expense}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		in   TransactionInput
		want error
	}{
		{TransactionInput{Description: "", Amount: 1, Type: Income}, ErrEmptyDescription},
		{TransactionInput{Description: "   ", Amount: 1, Type: Income}, ErrEmptyDescription},
		{TransactionInput{Description: "a", Amount: 0, Type: Income}, ErrInvalidAmount},
		{TransactionInput{Description: "a", Amount: 1, Type: "transfer"}, ErrInvalidType},
		{TransactionInput{Description: "a", Amount: 1, Type: ""}, ErrInvalidType},
	}
	for i, tc := range cases {
		if err := tc.in.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: got %v want %v", i, err, tc.want)
		}
	}
}

func TestBudgetInputValidate(t *testing.T) {
	if err := (BudgetInput{Category: "Food", Budget: 200}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (BudgetInput{Category: "", Budget: 200}).Validate(); !errors.Is(err, ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory")
	}
	if err := (BudgetInput{Category: "Food", Budget: 0}).Validate(); !errors.Is(err, ErrInvalidBudget) {
		t.Fatalf("expected ErrInvalidBudget")
	}
}

func TestIsValidationError(t *testing.T) {
	if !IsValidationError(ErrInvalidAmount) {
		t.Fatalf("sentinel should be a validation error")
	}
	if IsValidationError(errors.New("disk on fire")) {
		t.Fatalf("arbitrary error should not be a validation error")
	}
}

func TestCourseIsCompleted(t *testing.T) {
	cases := []struct {
		c    Course
		want bool
	}{
		{Course{Status: CourseCompleted}, true},
		{Course{Completed: true}, true},
		{Course{Status: CourseCompleted, Completed: true}, true},
		{Course{Status: "in_progress"}, false},
		{Course{}, false},
	}
	for i, tc := range cases {
		if got := tc.c.IsCompleted(); got != tc.want {
			t.Fatalf("case %d: got %v want %v", i, got, tc.want)
		}
	}
}

func TestWorkoutLabel(t *testing.T) {
	if got := (Workout{Name: "run", Type: "cardio"}).Label(); got != "cardio" {
		t.Fatalf("type should win: %q", got)
	}
	if got := (Workout{Name: "run"}).Label(); got != "run" {
		t.Fatalf("expected name fallback: %q", got)
	}
}

func TestNewSnapshotIsZeroed(t *testing.T) {
	snap := NewSnapshot()
	if snap.Summary != (SummaryTotals{}) {
		t.Fatalf("summary should be zeroed: %+v", snap.Summary)
	}
	if snap.Transactions == nil || snap.Budgets == nil || snap.Expenses == nil {
		t.Fatalf("lists should be empty, not nil")
	}
	if snap.UpdatedAt.IsZero() {
		t.Fatalf("updated_at should be set")
	}
}
