// Package writer persists extracted transactions as ledger rows.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/Navdevl/chris-cred-reader/internal/models"
)

// LedgerWriter appends transactions to a CSV ledger whose rows match
// the sheet shape: Date, Bank, Txn ID, Description, Amount, Category,
// Processed Date.
type LedgerWriter struct {
	Path string
}

// Append writes the transactions to the ledger file, creating it with
// a header row first when it does not exist yet.
func (w *LedgerWriter) Append(txns []models.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	_, statErr := os.Stat(w.Path)
	needHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(w.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger %q: %w", w.Path, err)
	}
	defer f.Close()

	return writeRows(f, txns, needHeader)
}

// Write streams transactions as CSV to out, header included.
func (w *LedgerWriter) Write(out io.Writer, txns []models.Transaction) error {
	return writeRows(out, txns, true)
}

func writeRows(out io.Writer, txns []models.Transaction, header bool) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()

	if header {
		if err := cw.Write(models.SheetHeaders()); err != nil {
			return fmt.Errorf("writing ledger header: %w", err)
		}
	}
	for _, t := range txns {
		if err := cw.Write(t.SheetRow()); err != nil {
			return fmt.Errorf("writing ledger row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadSeenKeys loads the duplicate keys of every row already in the
// ledger, so a re-run over an already recorded document does not
// reinsert identical rows. A missing ledger yields no keys.
func ReadSeenKeys(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ledger %q: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger %q: %w", path, err)
	}

	var keys []string
	for i, rec := range records {
		if i == 0 || len(rec) < 5 {
			continue // header or malformed row
		}
		t, err := models.FromSheetRow(rec)
		if err != nil {
			continue
		}
		keys = append(keys, t.DuplicateKey())
	}
	return keys, nil
}
