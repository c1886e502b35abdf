package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lifeadmin/internal/amqp"
	"lifeadmin/internal/sheets"
)

// LedgerWorker mirrors recorded transactions from the event queue onto the
// external ledger sheet.
type LedgerWorker struct {
	ledger  sheets.LedgerAppender
	timeout time.Duration
}

func NewLedgerWorker(ledger sheets.LedgerAppender, timeout time.Duration) *LedgerWorker {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LedgerWorker{
		ledger:  ledger,
		timeout: timeout,
	}
}

// HandleTransactionRecorded appends one transaction to the ledger sheet.
// Returning an error requeues the message, so appends stay at-least-once;
// the ledger may carry duplicates after a retry, never gaps.
func (w *LedgerWorker) HandleTransactionRecorded(ctx context.Context, msg *amqp.TransactionRecordedMessage) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	ref, err := w.ledger.Append(ctx, msg)
	if err != nil {
		return fmt.Errorf("append transaction to ledger: %w", err)
	}

	slog.InfoContext(ctx, "Transaction mirrored to ledger",
		"transaction_id", msg.ID,
		"ledger_ref", ref)
	return nil
}
