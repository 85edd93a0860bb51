package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Navdevl/chris-cred-reader/internal/document"
	"github.com/Navdevl/chris-cred-reader/internal/models"
)

// HDFCParser handles HDFC Bank credit card statements.
//
// Two generations of the format exist:
//
//	2024: Date | Transaction Description | Amount (in Rs.)
//	2025: one physical cell per row packing "DD/MM/YYYY| HH:MM
//	      DESCRIPTION C 1,234.00 [+]" lines, with no header row at all
//
// The 2025 layout is detected by sniffing data rows directly for the
// composite date|time pattern. Credits carry a "Cr" suffix (2024) or a
// "+" prefix (2025); the "C " prefix is format noise. Text parsing
// runs when no table on the page classified as transactional.
type HDFCParser struct {
	log zerolog.Logger
}

func (p *HDFCParser) BankName() string { return "HDFC" }

var (
	hdfcTableIndicators = []string{
		"date transaction description amount",
		"transaction description",
		"amount (in rs",
		"date & time transaction description amount pi",
		"amount pi",
	}

	// 2025 packed-cell line: DD/MM/YYYY| HH:MM DESCRIPTION [+ ]C AMT
	hdfcPackedPattern = regexp.MustCompile(
		`(\d{1,2}/\d{1,2}/\d{4})\|\s*\d{2}:\d{2}\s+(.+?)\s+((?:\+\s*)?C\s*[\d,]+\.?\d*)`)

	// 2024 text line: DD/MM/YYYY DESCRIPTION AMT[Cr], with an optional
	// 2025-style time component tolerated
	hdfcTextPattern = regexp.MustCompile(
		`^(\d{1,2}/\d{1,2}/\d{4})(?:\|\s*\d{2}:\d{2})?\s+(.+?)\s+((?:C\s*)?[\d,]+\.?\d*(?:Cr|cr)?(?:\s*\+)?)$`)

	hdfcRefPattern    = regexp.MustCompile(`Ref#\s*([0-9]+)`)
	hdfcDigitsPattern = regexp.MustCompile(`\b(\d{8,})\b`)

	hdfcEmbeddedAmount = regexp.MustCompile(`(?:C\s*)?[\d,]+\.?\d*(?:Cr|cr)?(?:\s*\+)?`)
)

func (p *HDFCParser) Parse(doc *document.Document) (txns []models.Transaction, err error) {
	defer recoverParse("hdfc", &txns, &err)

	for _, page := range doc.Pages {
		matched := false
		for _, table := range page.Tables {
			if p.isTransactionTable(table) {
				matched = true
				txns = append(txns, p.parseTransactionTable(table)...)
			}
		}
		if !matched {
			txns = append(txns, p.parseTextFormat(page.Text)...)
		}
	}

	txns = filterValid(txns)
	p.log.Debug().Int("count", len(txns)).Msg("hdfc parser extracted transactions")
	return txns, nil
}

func (p *HDFCParser) isTransactionTable(table document.Table) bool {
	if len(table) < 2 {
		return false
	}

	if containsKeyword(rowText(table[0]), hdfcTableIndicators) {
		return true
	}

	// Headerless 2025 format: sniff the first data rows for the packed
	// date|time pattern.
	for _, row := range table[1:min(3, len(table))] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		cell := strings.ToLower(row[0])
		if (strings.Contains(cell, "2025|") || strings.Contains(cell, "2024|")) &&
			strings.Contains(cell, "c ") {
			return true
		}
	}
	return false
}

func (p *HDFCParser) parseTransactionTable(table document.Table) []models.Transaction {
	var txns []models.Transaction

	for _, row := range table[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}

		// 2025 packed single-cell rows
		if onlyFirstCell(row) && strings.Contains(row[0], "|") &&
			(strings.Contains(row[0], "C ") || strings.Contains(row[0], "+ C ")) {
			txns = append(txns, p.parsePackedCell(row[0], len(txns))...)
			continue
		}

		if onlyFirstCell(row) && isNameRow(row[0]) {
			continue
		}

		var dateStr, description, amountStr string
		switch {
		case countFilled(row) >= 3:
			dateStr, description, amountStr = cellAt(row, 0), cellAt(row, 1), cellAt(row, 2)
		case countFilled(row) == 2:
			if !isSlashDate(row[0]) {
				continue
			}
			// Amount embedded in the description cell
			dateStr, description = cellAt(row, 0), cellAt(row, 1)
		default:
			continue
		}

		if !isSlashDate(dateStr) || description == "" {
			continue
		}

		amount := p.amountFromRow(amountStr, description)
		if amount.IsZero() {
			continue
		}

		txnID := p.referenceID(description)
		if txnID == "" {
			txnID = fmt.Sprintf("HDFC_%s_%d", dateStr, len(txns))
		}

		txn := models.Transaction{
			Date:        normalizeDate(stripTime(dateStr), LayoutSlash),
			Bank:        "HDFC",
			TxnID:       txnID,
			Description: cleanDescription(description),
			Amount:      amount,
			ProcessedAt: time.Now(),
		}
		if Validate(txn) {
			txns = append(txns, txn)
		}
	}

	return txns
}

// parsePackedCell splits a 2025-format cell into its one-per-line
// transactions.
func (p *HDFCParser) parsePackedCell(cell string, base int) []models.Transaction {
	var txns []models.Transaction

	for _, line := range strings.Split(cell, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isNameRow(line) {
			continue
		}

		m := hdfcPackedPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		amount := normalizeAmount(m[3])
		if amount.IsZero() {
			continue
		}

		txnID := p.referenceID(m[2])
		if txnID == "" {
			txnID = fmt.Sprintf("HDFC_2025_%s_%d", m[1], base+len(txns))
		}

		txn := models.Transaction{
			Date:        normalizeDate(m[1], LayoutSlash),
			Bank:        "HDFC",
			TxnID:       txnID,
			Description: cleanDescription(m[2]),
			Amount:      amount,
			ProcessedAt: time.Now(),
		}
		if Validate(txn) {
			txns = append(txns, txn)
		}
	}

	return txns
}

func (p *HDFCParser) parseTextFormat(text string) []models.Transaction {
	var txns []models.Transaction
	if text == "" {
		return txns
	}

	for _, line := range splitLines(text) {
		m := hdfcTextPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		amount := normalizeAmount(m[3])
		if amount.IsZero() {
			continue
		}

		txnID := p.referenceID(m[2])
		if txnID == "" {
			txnID = fmt.Sprintf("HDFC_TEXT_%s_%d", m[1], len(txns))
		}

		txn := models.Transaction{
			Date:        normalizeDate(m[1], LayoutSlash),
			Bank:        "HDFC",
			TxnID:       txnID,
			Description: cleanDescription(m[2]),
			Amount:      amount,
			ProcessedAt: time.Now(),
		}
		if Validate(txn) {
			txns = append(txns, txn)
		}
	}

	return txns
}

// amountFromRow prefers the amount column, falling back to an amount
// embedded in the description for collapsed layouts.
func (p *HDFCParser) amountFromRow(amountStr, description string) decimal.Decimal {
	if amountStr != "" {
		if amt := normalizeAmount(amountStr); !amt.IsZero() {
			return amt
		}
	}
	if m := hdfcEmbeddedAmount.FindString(description); m != "" {
		return normalizeAmount(m)
	}
	return decimal.Zero
}

func (p *HDFCParser) referenceID(description string) string {
	if m := hdfcRefPattern.FindStringSubmatch(description); m != nil {
		return m[1]
	}
	if m := hdfcDigitsPattern.FindStringSubmatch(description); m != nil {
		return m[1]
	}
	return ""
}

// onlyFirstCell reports whether only the row's first cell has content.
func onlyFirstCell(row []string) bool {
	for _, cell := range row[1:] {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return len(row) > 0 && strings.TrimSpace(row[0]) != ""
}

func countFilled(row []string) int {
	n := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			n++
		}
	}
	return n
}
