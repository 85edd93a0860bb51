package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Navdevl/chris-cred-reader/internal/document"
	"github.com/Navdevl/chris-cred-reader/internal/models"
)

// SBIParser handles SBI Card statements.
//
// SBI tables are strictly three columns — Date | Transaction Details |
// Amount — but each physical cell packs multiple logical transactions,
// one per line. The three cells are split on newlines and aligned
// positionally, processing only up to the shortest list so misaligned
// extractions never pair a date with a stranger's amount. Amounts
// carry a trailing " C" (credit) or " D" (debit). Date format:
// DD MMM YY. Text parsing runs when no table on the page classified.
type SBIParser struct {
	log zerolog.Logger
}

func (p *SBIParser) BankName() string { return "SBI" }

var (
	sbiTableIndicators = []string{
		"date transaction details amount",
		"transaction details",
		"amount ( `",
		"amount (rs",
	}

	sbiHeaderDescriptions = []string{
		"transactions for", "transaction details", "statement",
		"account summary", "previous balance", "available credit",
		"payment due date", "shop & smile", "important information",
	}

	// DD MMM YY  DESCRIPTION  AMT C|D
	sbiTextPattern = regexp.MustCompile(`^(\d{1,2}\s+\w{3}\s+\d{2})\s+(.+?)\s+([\d,]+\.?\d*)\s+([CD])$`)

	sbiCellDatePattern   = regexp.MustCompile(`\d{1,2}\s+\w{3}\s+\d{2}`)
	sbiCellAmountPattern = regexp.MustCompile(`[\d,]+\.?\d*\s+[CD]`)

	sbiPaymentRefPattern = regexp.MustCompile(`000DP\d+[A-Za-z0-9]+`)
	sbiAlnumRefPattern   = regexp.MustCompile(`\b([A-Z0-9]{6,})\b`)
	sbiIDCleanPattern    = regexp.MustCompile(`[^A-Z0-9_]`)
)

func (p *SBIParser) Parse(doc *document.Document) (txns []models.Transaction, err error) {
	defer recoverParse("sbi", &txns, &err)

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
	p.log.Debug().Int("count", len(txns)).Msg("sbi parser extracted transactions")
	return txns, nil
}

func (p *SBIParser) isTransactionTable(table document.Table) bool {
	if len(table) < 2 || len(table[0]) != 3 {
		return false
	}

	if containsKeyword(rowText(table[0]), sbiTableIndicators) {
		return true
	}

	// Headerless variants: sniff the first data row for multi-line
	// cells holding SBI date or amount patterns.
	for _, cell := range table[1] {
		if !strings.Contains(cell, "\n") {
			continue
		}
		if sbiCellDatePattern.MatchString(cell) || sbiCellAmountPattern.MatchString(cell) {
			return true
		}
	}
	return false
}

func (p *SBIParser) parseTransactionTable(table document.Table) []models.Transaction {
	var txns []models.Transaction

	for _, row := range table[1:] {
		if len(row) != 3 {
			continue
		}

		dates := splitCellLines(row[0])
		descriptions := splitCellLines(row[1])
		amounts := splitCellLines(row[2])
		if len(dates) == 0 || len(descriptions) == 0 || len(amounts) == 0 {
			continue
		}

		n := min(len(dates), min(len(descriptions), len(amounts)))
		for i := 0; i < n; i++ {
			if !isMonthDateShort(dates[i]) || descriptions[i] == "" || amounts[i] == "" {
				continue
			}
			if containsKeyword(descriptions[i], sbiHeaderDescriptions) {
				continue
			}
			if txn, ok := p.buildTransaction(dates[i], descriptions[i], amounts[i]); ok {
				txns = append(txns, txn)
			}
		}
	}

	return txns
}

func (p *SBIParser) parseTextFormat(text string) []models.Transaction {
	var txns []models.Transaction
	if text == "" {
		return txns
	}

	for _, line := range splitLines(text) {
		m := sbiTextPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if txn, ok := p.buildTransaction(m[1], m[2], m[3]+" "+m[4]); ok {
			txns = append(txns, txn)
		}
	}

	return txns
}

func (p *SBIParser) buildTransaction(dateStr, description, amountStr string) (models.Transaction, bool) {
	amount := normalizeAmount(amountStr)
	if amount.IsZero() {
		return models.Transaction{}, false
	}

	txn := models.Transaction{
		Date:        normalizeDate(dateStr, LayoutMonthShort),
		Bank:        "SBI",
		TxnID:       p.transactionID(dateStr, description),
		Description: cleanDescription(description),
		Amount:      amount,
		ProcessedAt: time.Now(),
	}
	if !Validate(txn) {
		return models.Transaction{}, false
	}
	return txn, true
}

// transactionID prefers a payment reference from the description,
// falling back to a synthesized id from the date and leading words.
func (p *SBIParser) transactionID(dateStr, description string) string {
	if m := sbiPaymentRefPattern.FindString(description); m != "" {
		return m
	}
	if m := sbiAlnumRefPattern.FindStringSubmatch(description); m != nil {
		return m[1]
	}

	words := strings.Fields(description)
	if len(words) > 3 {
		words = words[:3]
	}
	identifier := sbiIDCleanPattern.ReplaceAllString(strings.ToUpper(strings.Join(words, "_")), "")

	id := fmt.Sprintf("SBI_%s_%s", strings.ReplaceAll(dateStr, " ", "_"), identifier)
	if len(id) > 50 {
		id = id[:50]
	}
	return id
}

func splitCellLines(cell string) []string {
	var out []string
	for _, line := range strings.Split(cell, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
