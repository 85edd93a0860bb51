package parser

import (
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/Navdevl/chris-cred-reader/internal/document"
	"github.com/Navdevl/chris-cred-reader/internal/models"
)

// AxisParser handles Axis Bank credit card statements.
//
// Axis statements carry a conventional transaction table:
//
//	Date | Transaction Details | Merchant Category | Amount
//
// The header row is not always row 0, so a locator scans for it.
// Date format: DD/MM/YYYY. Text parsing runs only on pages with no
// tables at all.
type AxisParser struct {
	log zerolog.Logger
}

func (p *AxisParser) BankName() string { return "Axis" }

var (
	axisDateKeywords   = []string{"date", "transaction date", "txn date"}
	axisDescKeywords   = []string{"transaction details", "description", "particulars", "details"}
	axisAmountKeywords = []string{"amount", "debit", "credit", "txn amount"}
	axisRefKeywords    = []string{"reference", "ref no", "transaction id", "txn id"}

	axisTableIndicators = []string{
		"date", "transaction details", "transaction", "amount",
		"merchant category", "description", "particulars",
	}

	// DATE  DESCRIPTION  AMOUNT [Cr|Dr], anchored on the full line
	axisTextPattern = regexp.MustCompile(
		`^(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\s+(.+?)\s+((?:Rs\.?|INR)?\s*[\d,]+\.?\d*\s*(?:Cr|Dr)?)$`)
)

func (p *AxisParser) Parse(doc *document.Document) (txns []models.Transaction, err error) {
	defer recoverParse("axis", &txns, &err)

	for _, page := range doc.Pages {
		for _, table := range page.Tables {
			if p.isTransactionTable(table) {
				txns = append(txns, p.parseTransactionTable(table)...)
			}
		}
		if len(page.Tables) == 0 {
			txns = append(txns, p.parseTextFormat(page.Text)...)
		}
	}

	txns = filterValid(txns)
	p.log.Debug().Int("count", len(txns)).Msg("axis parser extracted transactions")
	return txns, nil
}

func (p *AxisParser) isTransactionTable(table document.Table) bool {
	if len(table) < 2 {
		return false
	}
	return containsKeyword(rowText(table[0]), axisTableIndicators)
}

// findHeaderRow locates the actual column-header row, which some
// statement years bury below summary rows.
func (p *AxisParser) findHeaderRow(table document.Table) int {
	for i, row := range table {
		if len(row) == 0 {
			continue
		}
		text := rowText(row)
		if containsKeyword(text, []string{"date"}) &&
			(containsKeyword(text, []string{"transaction details"}) || containsKeyword(text, []string{"description"})) &&
			containsKeyword(text, []string{"amount"}) {
			return i
		}
		for _, cell := range lowerCells(row) {
			if cell == "date" {
				return i
			}
		}
	}
	return -1
}

func (p *AxisParser) parseTransactionTable(table document.Table) []models.Transaction {
	var txns []models.Transaction

	headerIdx := p.findHeaderRow(table)
	if headerIdx == -1 {
		p.log.Debug().Msg("axis: no header row in candidate table")
		return txns
	}

	headers := lowerCells(table[headerIdx])
	dateCol := findColumnIndex(headers, axisDateKeywords)
	descCol := findColumnIndex(headers, axisDescKeywords)
	amountCol := findColumnIndex(headers, axisAmountKeywords)
	refCol := findColumnIndex(headers, axisRefKeywords)

	if dateCol < 0 || descCol < 0 || amountCol < 0 {
		return txns
	}

	for _, row := range table[headerIdx+1:] {
		dateStr := cellAt(row, dateCol)
		description := cellAt(row, descCol)
		amountStr := cellAt(row, amountCol)
		refNo := cellAt(row, refCol)

		if dateStr == "" || description == "" || amountStr == "" {
			continue
		}

		txnID := refNo
		if txnID == "" {
			txnID = fmt.Sprintf("AXIS_%s_%d", dateStr, len(txns))
		}

		txn := models.Transaction{
			Date:        normalizeDate(dateStr, LayoutSlash),
			Bank:        "Axis",
			TxnID:       txnID,
			Description: cleanDescription(description),
			Amount:      normalizeAmount(amountStr),
			ProcessedAt: time.Now(),
		}
		if Validate(txn) {
			txns = append(txns, txn)
		}
	}

	return txns
}

func (p *AxisParser) parseTextFormat(text string) []models.Transaction {
	var txns []models.Transaction
	if text == "" {
		return txns
	}

	for _, line := range splitLines(text) {
		m := axisTextPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		description := cleanDescription(m[2])
		if description == "" {
			continue
		}

		txn := models.Transaction{
			Date:        normalizeDate(m[1], LayoutSlash),
			Bank:        "Axis",
			TxnID:       fmt.Sprintf("AXIS_TEXT_%s_%d", m[1], len(txns)),
			Description: description,
			Amount:      normalizeAmount(m[3]),
			ProcessedAt: time.Now(),
		}
		if Validate(txn) {
			txns = append(txns, txn)
		}
	}

	return txns
}
