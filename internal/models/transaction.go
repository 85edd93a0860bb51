package models

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single extracted statement transaction.
//
// Sign convention: debit (money spent) is positive, credit (refund or
// payment received) is negative. Statements print the opposite, so
// parsers invert Dr/Cr markers at extraction time.
type Transaction struct {
	Date        string          `json:"date"` // YYYY-MM-DD after normalization
	Bank        string          `json:"bank"`
	TxnID       string          `json:"txnId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
	ProcessedAt time.Time       `json:"processedAt"`
}

// BankType identifies a supported issuer statement format.
type BankType string

const (
	BankAxis  BankType = "axis"
	BankHDFC  BankType = "hdfc"
	BankSBI   BankType = "sbi"
	BankICICI BankType = "icici"
	BankRBL   BankType = "rbl"
)

// SupportedBanks lists the issuers with a registered parser.
var SupportedBanks = []BankType{BankAxis, BankHDFC, BankSBI, BankICICI, BankRBL}

// IsSupportedBank reports whether tag names a known issuer.
func IsSupportedBank(tag string) bool {
	for _, b := range SupportedBanks {
		if string(b) == tag {
			return true
		}
	}
	return false
}

// SheetHeaders returns the ledger column names, in row order.
func SheetHeaders() []string {
	return []string{"Date", "Bank", "Txn ID", "Description", "Amount", "Category", "Processed Date"}
}

// SheetRow serializes the transaction as a flat 7-field ledger row.
// Amount is its exact decimal string form.
func (t Transaction) SheetRow() []string {
	return []string{
		t.Date,
		t.Bank,
		t.TxnID,
		t.Description,
		t.Amount.String(),
		t.Category,
		t.ProcessedAt.Format(time.RFC3339),
	}
}

// FromSheetRow rebuilds a transaction from a 7-field ledger row, used
// to recompute duplicate keys for previously recorded data. Rows with
// fewer than five fields or an unparseable amount are rejected.
func FromSheetRow(row []string) (Transaction, error) {
	if len(row) < 5 {
		return Transaction{}, fmt.Errorf("sheet row has %d fields, want at least 5", len(row))
	}
	amount, err := decimal.NewFromString(row[4])
	if err != nil {
		return Transaction{}, fmt.Errorf("parsing sheet row amount %q: %w", row[4], err)
	}
	t := Transaction{
		Date:        row[0],
		Bank:        row[1],
		TxnID:       row[2],
		Description: row[3],
		Amount:      amount,
	}
	if len(row) > 5 {
		t.Category = row[5]
	}
	if len(row) > 6 {
		if ts, err := time.Parse(time.RFC3339, row[6]); err == nil {
			t.ProcessedAt = ts
		}
	}
	return t, nil
}

// DuplicateKey derives the stable identity hash used to suppress
// repeats, both within a document and across runs. Two transactions
// with identical (date, bank, id, description, amount) hash the same
// regardless of which extraction path produced them.
func (t Transaction) DuplicateKey() string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s|%s|%s|%s|%s",
		t.Date, t.Bank, t.TxnID, t.Description, t.Amount.String())))
	return hex.EncodeToString(sum[:])
}
