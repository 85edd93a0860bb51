package models

import (
	"fmt"
	"strings"
	"time"
)

// StatementFile describes one inbox PDF, decomposed from the naming
// convention <issuer>-<passphrase>-<identifier>.pdf. The identifier may
// itself contain hyphens.
type StatementFile struct {
	Filename   string
	Bank       string
	Password   string
	Identifier string
}

// ParseFilename decomposes a statement filename. It rejects names that
// do not follow the convention or that name an unsupported issuer, so
// bad files never reach a parser.
func ParseFilename(filename string) (StatementFile, error) {
	name := strings.TrimSuffix(filename, ".pdf")
	parts := strings.Split(name, "-")
	if len(parts) < 3 {
		return StatementFile{}, fmt.Errorf("invalid statement filename %q: want <issuer>-<passphrase>-<identifier>.pdf", filename)
	}

	bank := strings.ToLower(parts[0])
	if !IsSupportedBank(bank) {
		return StatementFile{}, fmt.Errorf("unsupported bank %q in filename %q", bank, filename)
	}

	return StatementFile{
		Filename:   filename,
		Bank:       bank,
		Password:   parts[1],
		Identifier: strings.Join(parts[2:], "-"),
	}, nil
}

// ProcessingResult reports the outcome of one file's extraction.
// Document-level failures carry a reason string for operator triage and
// never abort the surrounding batch.
type ProcessingResult struct {
	File         StatementFile
	Transactions []Transaction
	Success      bool
	ErrorMessage string
	ProcessedAt  time.Time
}
