package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"time"

	"lifeadmin/internal/core"

	"github.com/google/uuid"
)

// SnapshotStore is the persistence port for the single finance document.
type SnapshotStore interface {
	GetOrCreateSnapshot(ctx context.Context) (*core.FinanceSnapshot, error)
	SaveSnapshot(ctx context.Context, snap *core.FinanceSnapshot) error
}

// LedgerPublisher mirrors recorded transactions onto the event stream.
// Publishing is best-effort: a failure never rolls back the mutation.
type LedgerPublisher interface {
	PublishTransactionRecorded(ctx context.Context, tx core.Transaction) error
}

// FinanceService implements the snapshot mutation operations and the
// projected overview read path.
type FinanceService struct {
	store     SnapshotStore
	projector core.Projector
	publisher LedgerPublisher
}

func NewFinanceService(store SnapshotStore, projector core.Projector, publisher LedgerPublisher) *FinanceService {
	return &FinanceService{
		store:     store,
		projector: projector,
		publisher: publisher,
	}
}

type (
	// ProjectedSummary mirrors SummaryTotals with each field as a
	// {usd, inr} pair.
	ProjectedSummary struct {
		CurrentBalance  core.Amount `json:"currentBalance"`
		MonthlyIncome   core.Amount `json:"monthlyIncome"`
		MonthlyExpenses core.Amount `json:"monthlyExpenses"`
		Savings         core.Amount `json:"savings"`
		Investments     core.Amount `json:"investments"`
	}

	ProjectedExpense struct {
		Category   string      `json:"category"`
		Amount     core.Amount `json:"amount"`
		Percentage float64     `json:"percentage"`
		Color      string      `json:"color"`
	}

	ProjectedTransaction struct {
		ID          string               `json:"id"`
		Description string               `json:"description"`
		Amount      core.Amount          `json:"amount"`
		Category    string               `json:"category"`
		Date        string               `json:"date"`
		Type        core.TransactionType `json:"type"`
		CreatedAt   time.Time            `json:"createdAt"`
	}

	ProjectedBudget struct {
		Category  string      `json:"category"`
		Budget    core.Amount `json:"budget"`
		Spent     core.Amount `json:"spent"`
		Remaining core.Amount `json:"remaining"`
	}

	// FinanceOverview is the projected read model of the snapshot. The
	// conversion happens here, at the read boundary only; stored values
	// stay in USD.
	FinanceOverview struct {
		Summary      ProjectedSummary       `json:"summary"`
		Expenses     []ProjectedExpense     `json:"expenses"`
		Transactions []ProjectedTransaction `json:"transactions"`
		Budgets      []ProjectedBudget      `json:"budgets"`
		UpdatedAt    time.Time              `json:"updatedAt"`
	}
)

// Overview fetches the current snapshot and serializes it with every
// monetary field projected to a {usd, inr} pair.
func (s *FinanceService) Overview(ctx context.Context) (*FinanceOverview, error) {
	snap, err := s.store.GetOrCreateSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	ov := &FinanceOverview{
		Summary: ProjectedSummary{
			CurrentBalance:  s.projector.Project(snap.Summary.CurrentBalance),
			MonthlyIncome:   s.projector.Project(snap.Summary.MonthlyIncome),
			MonthlyExpenses: s.projector.Project(snap.Summary.MonthlyExpenses),
			Savings:         s.projector.Project(snap.Summary.Savings),
			Investments:     s.projector.Project(snap.Summary.Investments),
		},
		Expenses:     make([]ProjectedExpense, 0, len(snap.Expenses)),
		Transactions: make([]ProjectedTransaction, 0, len(snap.Transactions)),
		Budgets:      make([]ProjectedBudget, 0, len(snap.Budgets)),
		UpdatedAt:    snap.UpdatedAt,
	}

	for _, e := range snap.Expenses {
		ov.Expenses = append(ov.Expenses, ProjectedExpense{
			Category:   e.Category,
			Amount:     s.projector.Project(e.Amount),
			Percentage: e.Percentage,
			Color:      e.Color,
		})
	}
	for _, t := range snap.Transactions {
		ov.Transactions = append(ov.Transactions, ProjectedTransaction{
			ID:          t.ID,
			Description: t.Description,
			Amount:      s.projector.Project(t.Amount),
			Category:    t.Category,
			Date:        t.Date,
			Type:        t.Type,
			CreatedAt:   t.CreatedAt,
		})
	}
	for _, b := range snap.Budgets {
		ov.Budgets = append(ov.Budgets, ProjectedBudget{
			Category:  b.Category,
			Budget:    s.projector.Project(b.Budget),
			Spent:     s.projector.Project(b.Spent),
			Remaining: s.projector.Project(b.Remaining),
		})
	}
	return ov, nil
}

// AppendTransaction validates the input, inserts the transaction at the head
// of the list and applies the summary deltas, then persists the whole
// document. Validation happens before any mutation; a failed persist leaves
// no partial state because the document writes atomically.
func (s *FinanceService) AppendTransaction(ctx context.Context, in core.TransactionInput) (*core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	snap, err := s.store.GetOrCreateSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	tx := core.Transaction{
		ID:          uuid.NewString(),
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		Date:        in.Date,
		Type:        in.Type,
		CreatedAt:   time.Now(),
	}

	// Head insertion keeps the list newest-first without a sort step.
	snap.Transactions = append([]core.Transaction{tx}, snap.Transactions...)

	if in.Type == core.Income {
		snap.Summary.CurrentBalance += in.Amount
		// Accumulates for the lifetime of the snapshot; the optional
		// rollover job is the only thing that ever resets it.
		snap.Summary.MonthlyIncome += in.Amount
	} else {
		snap.Summary.CurrentBalance -= in.Amount
		snap.Summary.MonthlyExpenses += in.Amount
	}

	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("persist snapshot: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionRecorded(ctx, tx); err != nil {
			slog.WarnContext(ctx, "Failed to publish transaction event",
				"error", err, "transaction_id", tx.ID)
		}
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"transaction_id", tx.ID,
		"transaction_type", string(tx.Type),
		"amount_usd", tx.Amount,
		"balance_usd", snap.Summary.CurrentBalance)

	return &tx, nil
}

// UpsertBudget replaces the budget cap for an existing category (keeping its
// tracked spending) or appends a fresh entry. Category matching is exact and
// case-sensitive.
func (s *FinanceService) UpsertBudget(ctx context.Context, in core.BudgetInput) (*core.Budget, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	snap, err := s.store.GetOrCreateSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var entry *core.Budget
	for i := range snap.Budgets {
		if snap.Budgets[i].Category == in.Category {
			entry = &snap.Budgets[i]
			break
		}
	}

	if entry != nil {
		entry.Budget = in.Budget
		remaining := in.Budget - entry.Spent
		if remaining < 0 {
			remaining = 0
		}
		entry.Remaining = remaining
	} else {
		snap.Budgets = append(snap.Budgets, core.Budget{
			Category:  in.Category,
			Budget:    in.Budget,
			Spent:     0,
			Remaining: in.Budget,
		})
		entry = &snap.Budgets[len(snap.Budgets)-1]
	}

	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("persist snapshot: %w", err)
	}

	result := *entry
	slog.InfoContext(ctx, "Budget upserted",
		"category", result.Category,
		"budget_usd", result.Budget,
		"remaining_usd", result.Remaining)
	return &result, nil
}

// ResetMonthlyTotals zeroes the monthly income and expense counters. Called
// only by the opt-in month-rollover job; the default deployment preserves
// the accumulating behavior.
func (s *FinanceService) ResetMonthlyTotals(ctx context.Context) error {
	snap, err := s.store.GetOrCreateSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	previousIncome := snap.Summary.MonthlyIncome
	previousExpenses := snap.Summary.MonthlyExpenses
	snap.Summary.MonthlyIncome = 0
	snap.Summary.MonthlyExpenses = 0

	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Monthly totals reset",
		"previous_income_usd", previousIncome,
		"previous_expenses_usd", previousExpenses)
	return nil
}

// ExportTransactionsCSV streams the snapshot's transaction list as CSV,
// newest first, amounts in stored USD.
func (s *FinanceService) ExportTransactionsCSV(ctx context.Context, w io.Writer) error {
	snap, err := s.store.GetOrCreateSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "description", "amount_usd", "category", "date", "type", "created_at"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range snap.Transactions {
		record := []string{
			t.ID,
			t.Description,
			fmt.Sprintf("%.2f", t.Amount),
			t.Category,
			t.Date,
			string(t.Type),
			t.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
