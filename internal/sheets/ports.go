package sheets

import (
	"context"

	"lifeadmin/internal/amqp"
)

// Ports for outbound adapters.
type (
	// LedgerAppender mirrors a recorded transaction onto an external ledger.
	LedgerAppender interface {
		Append(ctx context.Context, msg *amqp.TransactionRecordedMessage) (rowRef string, err error)
	}
)
