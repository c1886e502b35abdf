package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// SummaryTotals holds the headline USD figures of the finance snapshot.
	SummaryTotals struct {
		CurrentBalance  float64 `json:"currentBalance"`
		MonthlyIncome   float64 `json:"monthlyIncome"`
		MonthlyExpenses float64 `json:"monthlyExpenses"`
		Savings         float64 `json:"savings"`
		Investments     float64 `json:"investments"`
	}

	// ExpenseCategory is one categorized slice of spending. Percentage and
	// color are advisory display values, never recomputed from amount.
	ExpenseCategory struct {
		Category   string  `json:"category"`
		Amount     float64 `json:"amount"`
		Percentage float64 `json:"percentage"`
		Color      string  `json:"color"`
	}

	// Transaction is a single ledger entry. Amount is always positive;
	// the sign is implied by Type.
	Transaction struct {
		ID          string          `json:"id"`
		Description string          `json:"description"`
		Amount      float64         `json:"amount"`
		Category    string          `json:"category"`
		Date        string          `json:"date"`
		Type        TransactionType `json:"type"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	// Budget tracks a spending cap per category. Spent is maintained
	// externally; Remaining is advisory and recomputed only on upsert.
	Budget struct {
		Category  string  `json:"category"`
		Budget    float64 `json:"budget"`
		Spent     float64 `json:"spent"`
		Remaining float64 `json:"remaining"`
	}

	// FinanceSnapshot is the single current-state financial document.
	// It is mutated in place, never versioned or archived.
	FinanceSnapshot struct {
		ID           int64             `json:"-"`
		Summary      SummaryTotals     `json:"summary"`
		Expenses     []ExpenseCategory `json:"expenses"`
		Transactions []Transaction     `json:"transactions"`
		Budgets      []Budget          `json:"budgets"`
		UpdatedAt    time.Time         `json:"updatedAt"`
	}

	Workout struct {
		ID              string    `json:"id"`
		Name            string    `json:"name"`
		Type            string    `json:"type"`
		DurationMinutes int       `json:"durationMinutes"`
		Date            time.Time `json:"date,omitzero"`
		CreatedAt       time.Time `json:"createdAt"`
	}

	Course struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Platform    string    `json:"platform"`
		Status      string    `json:"status"`
		Completed   bool      `json:"completed"`
		CompletedAt time.Time `json:"completedAt,omitzero"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}
)

// CourseCompleted is the status marker of the newer convention. Older records
// carry only the boolean flag; both conventions are honored at query time.
const CourseCompleted = "completed"

var (
	ErrEmptyDescription = errors.New("description is required")
	ErrInvalidAmount    = errors.New("amount is required and must be non-zero")
	ErrInvalidType      = errors.New("type must be income or expense")
	ErrEmptyCategory    = errors.New("category is required")
	ErrInvalidBudget    = errors.New("budget is required and must be non-zero")
	ErrEmptyName        = errors.New("name is required")
	ErrEmptyTitle       = errors.New("title is required")
)

// IsValidationError reports whether err is one of the input validation
// sentinels, so transports can map it to a 4xx without a taxonomy of their own.
func IsValidationError(err error) bool {
	for _, sentinel := range []error{
		ErrEmptyDescription, ErrInvalidAmount, ErrInvalidType,
		ErrEmptyCategory, ErrInvalidBudget, ErrEmptyName, ErrEmptyTitle,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// TransactionInput is the payload of an append-transaction call.
type TransactionInput struct {
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Type        TransactionType `json:"type"`
}

func (in TransactionInput) Validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return ErrEmptyDescription
	}
	if in.Amount == 0 {
		return ErrInvalidAmount
	}
	switch in.Type {
	case Income, Expense:
	default:
		return ErrInvalidType
	}
	return nil
}

// BudgetInput is the payload of a budget upsert.
type BudgetInput struct {
	Category string  `json:"category"`
	Budget   float64 `json:"budget"`
}

func (in BudgetInput) Validate() error {
	if strings.TrimSpace(in.Category) == "" {
		return ErrEmptyCategory
	}
	if in.Budget == 0 {
		return ErrInvalidBudget
	}
	return nil
}

func (w Workout) Validate() error {
	if strings.TrimSpace(w.Name) == "" && strings.TrimSpace(w.Type) == "" {
		return ErrEmptyName
	}
	return nil
}

func (c Course) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// IsCompleted reports course completion under either historical convention:
// the status marker or the boolean flag.
func (c Course) IsCompleted() bool {
	return c.Status == CourseCompleted || c.Completed
}

// Label is the human-readable workout name used in the activity feed.
func (w Workout) Label() string {
	if w.Type != "" {
		return w.Type
	}
	return w.Name
}

// NewSnapshot returns a zeroed snapshot, the lazily-created initial state.
func NewSnapshot() *FinanceSnapshot {
	return &FinanceSnapshot{
		Expenses:     []ExpenseCategory{},
		Transactions: []Transaction{},
		Budgets:      []Budget{},
		UpdatedAt:    time.Now(),
	}
}
