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

// RBLParser handles RBL Bank credit card statements.
//
// RBL is a line-oriented format: "DD MMM YYYY DESCRIPTION AMOUNT",
// e.g. "13 Jul 2025 MS OMR MALL DEVELOPER KANCHIPURAM IND 160.00".
// The text pass always runs as the primary method; tables, when the
// extractor finds any, are single-column rows fed through the same
// line parser. Amounts carry no Cr/Dr marker, so direction is inferred
// from a documented keyword scan of the description. 2024 statements
// leak (cid:N) font escapes which are stripped before matching.
type RBLParser struct {
	log zerolog.Logger
}

func (p *RBLParser) BankName() string { return "RBL" }

var (
	rblTableIndicators = []string{
		"date description amount",
		"date description amount ₹",
		"transaction amount",
	}

	// DD MMM YYYY  DESCRIPTION  AMOUNT
	rblLinePattern = regexp.MustCompile(`^(\d{1,2}\s+\w{3}\s+\d{4})\s+(.+?)\s+([\d,]+\.?\d*)$`)

	rblRefPattern = regexp.MustCompile(`\b(\d{6,})\b`)

	// Credit direction inferred from the description; an explicit,
	// documented heuristic, not to be refined silently.
	rblCreditKeywords = []string{
		"payment", "upi", "transfer", "credit", "refund",
		"reversal", "cashback", "reward", "adjustment",
	}

	rblHeaderKeywords = []string{
		"date description amount", "account summary", "card number",
		"total amount due", "min. amt. due", "payment due date",
		"available reward points", "statement period", "statement date",
	}

	rblSummaryKeywords = []string{
		"total amount due", "min. amt. due", "payment due date",
		"card number", "available reward", "points to expire",
		"opening balance", "closing balance", "fuel surcharge",
		"bonus points", "membership fee", "t&cs apply", "use code",
		"valid till", "rblfares", "opt for", "download", "pay utility",
	}
)

func (p *RBLParser) Parse(doc *document.Document) (txns []models.Transaction, err error) {
	defer recoverParse("rbl", &txns, &err)

	for _, page := range doc.Pages {
		for _, table := range page.Tables {
			if p.isTransactionTable(table) {
				txns = append(txns, p.parseTransactionTable(table)...)
			}
		}
		// Text is the primary pass for this issuer and always runs.
		txns = append(txns, p.parseTextFormat(page.Text)...)
	}

	txns = filterValid(txns)
	p.log.Debug().Int("count", len(txns)).Msg("rbl parser extracted transactions")
	return txns, nil
}

func (p *RBLParser) isTransactionTable(table document.Table) bool {
	if len(table) < 2 {
		return false
	}

	if containsKeyword(rowText(table[0]), rblTableIndicators) {
		return true
	}

	for _, row := range table[1:min(3, len(table))] {
		if len(row) > 0 && rblDatePattern.MatchString(strings.ToLower(row[0])) {
			return true
		}
	}
	return false
}

var rblDatePattern = regexp.MustCompile(`\d{1,2}\s+\w{3}\s+\d{4}`)

func (p *RBLParser) parseTransactionTable(table document.Table) []models.Transaction {
	var txns []models.Transaction

	for _, row := range table[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		line := strings.TrimSpace(row[0])
		if line == "" || containsKeyword(line, rblSummaryKeywords) {
			continue
		}
		if txn, ok := p.parseTransactionLine(line); ok {
			txns = append(txns, txn)
		}
	}

	return txns
}

func (p *RBLParser) parseTextFormat(text string) []models.Transaction {
	var txns []models.Transaction
	if text == "" {
		return txns
	}

	for _, line := range splitLines(text) {
		if containsKeyword(line, rblHeaderKeywords) || containsKeyword(line, rblSummaryKeywords) {
			continue
		}
		if txn, ok := p.parseTransactionLine(line); ok {
			txns = append(txns, txn)
		}
	}

	return txns
}

func (p *RBLParser) parseTransactionLine(line string) (models.Transaction, bool) {
	line = stripCIDEscapes(line)

	m := rblLinePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return models.Transaction{}, false
	}

	dateStr, description, amountStr := m[1], m[2], m[3]

	amount := normalizeAmount(amountStr)
	if amount.IsZero() {
		return models.Transaction{}, false
	}
	if containsKeyword(description, rblCreditKeywords) {
		amount = amount.Abs().Neg()
	}

	txn := models.Transaction{
		Date:        normalizeDate(dateStr, LayoutMonth),
		Bank:        "RBL",
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

func (p *RBLParser) transactionID(dateStr, description string) string {
	if m := rblRefPattern.FindStringSubmatch(description); m != nil {
		return m[1]
	}

	words := strings.Fields(description)
	if len(words) > 3 {
		words = words[:3]
	}
	id := fmt.Sprintf("RBL_%s_%s",
		strings.ReplaceAll(dateStr, " ", "_"),
		strings.ToUpper(strings.Join(words, "_")))
	if len(id) > 50 {
		id = id[:50]
	}
	return id
}
