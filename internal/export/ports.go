// Package export defines the outbound port for mirroring transactions to an
// external spreadsheet.
package export

import (
	"context"

	"fintrack/internal/core"
)

// TransactionExporter appends one transaction to the export backend and
// returns a backend-specific row reference.
type TransactionExporter interface {
	Export(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
