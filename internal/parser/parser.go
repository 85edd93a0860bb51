// Package parser implements the per-issuer statement extraction
// engine: table classification, adjacent-table stitching, multi-line
// cell splitting and line-oriented text parsing, with shared
// normalization and validation.
package parser

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Navdevl/chris-cred-reader/internal/document"
	"github.com/Navdevl/chris-cred-reader/internal/models"
)

// Parser is the contract shared by all issuer variants. Parse walks
// the document's pages in order and returns validated transactions.
// A non-nil error means a document-level failure: the caller gets
// zero transactions plus a reason, never a panic.
type Parser interface {
	Parse(doc *document.Document) ([]models.Transaction, error)
	BankName() string
}

// New returns the parser variant for the given issuer tag.
func New(bank string, log zerolog.Logger) (Parser, error) {
	switch models.BankType(bank) {
	case models.BankAxis:
		return &AxisParser{log: log}, nil
	case models.BankHDFC:
		return &HDFCParser{log: log}, nil
	case models.BankSBI:
		return &SBIParser{log: log}, nil
	case models.BankICICI:
		return &ICICIParser{log: log}, nil
	case models.BankRBL:
		return &RBLParser{log: log}, nil
	default:
		return nil, fmt.Errorf("unsupported bank type: %q", bank)
	}
}

// Validate is the uniform last-stage gate: a transaction is valid iff
// its date and description are non-empty and its amount is non-zero.
// There is no other rejection path.
func Validate(t models.Transaction) bool {
	return t.Date != "" && t.Description != "" && !t.Amount.IsZero()
}

// filterValid applies the validation gate, preserving order.
func filterValid(txns []models.Transaction) []models.Transaction {
	out := txns[:0]
	for _, t := range txns {
		if Validate(t) {
			out = append(out, t)
		}
	}
	return out
}

// recoverParse converts a panic inside a variant's page loop into a
// document-level error with an empty result. A single bad document
// must never take down a batch.
func recoverParse(bank string, txns *[]models.Transaction, err *error) {
	if r := recover(); r != nil {
		*txns = nil
		*err = fmt.Errorf("%s parser failed: %v", bank, r)
	}
}
