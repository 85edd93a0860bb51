package parser

import (
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/Navdevl/chris-cred-reader/internal/document"
	"github.com/Navdevl/chris-cred-reader/internal/models"
)

// ICICIParser handles ICICI Bank credit card statements.
//
// Table layout: Date | SerNo. | Transaction Details | Reward Points |
// Intl.# | Amount. Some statement years split the header row and the
// data rows into adjacent physical tables, which are stitched back
// together before parsing. The text pass always runs as a supplement
// because ICICI's tabular extraction is unreliable; the two passes are
// merged with same-document duplicate suppression on
// (date, amount, description).
type ICICIParser struct {
	log zerolog.Logger
}

func (p *ICICIParser) BankName() string { return "ICICI" }

var (
	iciciTableIndicators = []string{
		"transaction details",
		"reward points",
		"serno",
		"intl. # amount",
		"amount (in",
	}

	// DD/MM/YYYY SERNUM DESCRIPTION AMT[ CR]
	iciciTextPattern = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4})\s+(\d+)\s+(.+?)\s+([\d,]+\.?\d*(?:\s*CR)?)$`)
)

func (p *ICICIParser) Parse(doc *document.Document) (txns []models.Transaction, err error) {
	defer recoverParse("icici", &txns, &err)

	for _, page := range doc.Pages {
		tables := stitchAdjacentTables(page.Tables, p.isTransactionTable, p.looksLikeTransactionData)

		for _, table := range tables {
			if p.isTransactionTable(table) {
				txns = append(txns, p.parseTransactionTable(table)...)
			}
		}

		// Supplementary text pass, merged with duplicate suppression so
		// content extracted by both paths is emitted once.
		txns = mergeUnique(txns, p.parseTextFormat(page.Text))
	}

	txns = filterValid(txns)
	p.log.Debug().Int("count", len(txns)).Msg("icici parser extracted transactions")
	return txns, nil
}

func (p *ICICIParser) isTransactionTable(table document.Table) bool {
	if len(table) < 1 {
		return false
	}
	return containsKeyword(rowText(table[0]), iciciTableIndicators)
}

// looksLikeTransactionData reports whether any row of the table leads
// with a valid date, the cue that a header-starved table carries data.
func (p *ICICIParser) looksLikeTransactionData(table document.Table) bool {
	for _, row := range table {
		if len(row) >= 3 && isSlashDate(cellAt(row, 0)) {
			return true
		}
	}
	return false
}

func (p *ICICIParser) parseTransactionTable(table document.Table) []models.Transaction {
	var txns []models.Transaction

	for _, row := range table[1:] {
		if len(row) < 4 {
			continue
		}

		dateStr := cellAt(row, 0)
		serNo := cellAt(row, 1)
		description := cellAt(row, 2)
		amountStr := cellAt(row, len(row)-1) // amount is the last column

		if !isSlashDate(dateStr) || description == "" || amountStr == "" {
			continue
		}

		amount := normalizeAmount(amountStr)
		if amount.IsZero() {
			continue
		}

		txnID := serNo
		if txnID == "" {
			txnID = fmt.Sprintf("ICICI_%s_%d", dateStr, len(txns))
		}

		txn := models.Transaction{
			Date:        normalizeDate(dateStr, LayoutSlash),
			Bank:        "ICICI",
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

func (p *ICICIParser) parseTextFormat(text string) []models.Transaction {
	var txns []models.Transaction
	if text == "" {
		return txns
	}

	for _, line := range splitLines(text) {
		m := iciciTextPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		amount := normalizeAmount(m[4])
		if amount.IsZero() {
			continue
		}

		txn := models.Transaction{
			Date:        normalizeDate(m[1], LayoutSlash),
			Bank:        "ICICI",
			TxnID:       m[2],
			Description: cleanDescription(m[3]),
			Amount:      amount,
			ProcessedAt: time.Now(),
		}
		if Validate(txn) {
			txns = append(txns, txn)
		}
	}

	return txns
}

// mergeUnique appends extra onto txns, keeping only the first
// occurrence per (date, amount, description) across both slices.
func mergeUnique(txns, extra []models.Transaction) []models.Transaction {
	seen := make(map[string]bool, len(txns)+len(extra))
	out := make([]models.Transaction, 0, len(txns)+len(extra))
	for _, t := range append(txns, extra...) {
		key := fmt.Sprintf("%s|%s|%s", t.Date, t.Amount.String(), t.Description)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}
