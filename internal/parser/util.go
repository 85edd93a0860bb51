package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Navdevl/chris-cred-reader/internal/document"
)

// Date layouts seen across issuer statements.
const (
	LayoutSlash      = "DD/MM/YYYY"
	LayoutSlashShort = "DD/MM/YY"
	LayoutDash       = "DD-MM-YYYY"
	LayoutMonth      = "DD MMM YYYY"
	LayoutMonthShort = "DD MMM YY"
)

var dateLayouts = map[string]string{
	LayoutSlash:      "2/1/2006",
	LayoutSlashShort: "2/1/06",
	LayoutDash:       "2-1-2006",
	LayoutMonth:      "2 Jan 2006",
	LayoutMonthShort: "2 Jan 06",
}

// normalizeDate converts a raw date string in the given layout to
// canonical YYYY-MM-DD. Unknown layouts and unparseable values return
// the raw string unchanged; the validation gate, not the normalizer,
// is the rejection point.
func normalizeDate(raw, layout string) string {
	goLayout, ok := dateLayouts[layout]
	if !ok {
		return raw
	}
	t, err := time.Parse(goLayout, strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02")
}

var currencyMarkers = regexp.MustCompile("[,`₹]|Rs\\.?|INR")

// normalizeAmount parses a statement amount with embedded credit or
// debit markers and applies the engine's sign convention: debit
// positive, credit negative. The statement's own marker (Cr/Dr
// suffix, C/D letter, + prefix) decides the direction and is then
// inverted into the expense-tracking sign. Unparseable input yields
// zero, which the validation gate rejects downstream.
func normalizeAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}

	isCredit := false
	lower := strings.ToLower(s)
	switch {
	case strings.HasSuffix(lower, "credit"):
		isCredit = true
		s = s[:len(s)-len("credit")]
	case strings.HasSuffix(lower, "debit"):
		s = s[:len(s)-len("debit")]
	case strings.HasSuffix(lower, "cr"):
		isCredit = true
		s = s[:len(s)-2]
	case strings.HasSuffix(lower, "dr"):
		s = s[:len(s)-2]
	case strings.HasSuffix(s, " C"):
		isCredit = true
		s = s[:len(s)-2]
	case strings.HasSuffix(s, " D"):
		s = s[:len(s)-2]
	}

	s = strings.TrimSpace(s)

	// 2025-format prefixes: "+" marks a credit, a bare "C " is noise.
	if strings.HasPrefix(s, "+") {
		isCredit = true
		s = strings.TrimSpace(s[1:])
	}
	if strings.HasPrefix(s, "C ") {
		s = strings.TrimSpace(s[2:])
	} else if strings.HasPrefix(s, "C") && len(s) > 1 && s[1] >= '0' && s[1] <= '9' {
		s = s[1:]
	}

	s = currencyMarkers.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	amt, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if isCredit {
		return amt.Abs().Neg()
	}
	return amt.Abs()
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// cleanDescription trims and collapses whitespace runs, including
// embedded newlines from multi-line cells, to single spaces.
func cleanDescription(raw string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(raw, " "))
}

// extractReference returns the first capture group of pattern in text,
// or the trimmed text when pattern is nil or does not match.
func extractReference(text string, pattern *regexp.Regexp) string {
	if text == "" {
		return ""
	}
	if pattern != nil {
		if m := pattern.FindStringSubmatch(text); len(m) > 1 {
			return m[1]
		}
	}
	return strings.TrimSpace(text)
}

// findColumnIndex returns the index of the first header cell
// containing any of the keywords, or -1.
func findColumnIndex(headers []string, keywords []string) int {
	for i, h := range headers {
		for _, kw := range keywords {
			if strings.Contains(h, kw) {
				return i
			}
		}
	}
	return -1
}

// lowerCells normalizes a row's cells for keyword matching: lowercase,
// newlines flattened, trimmed.
func lowerCells(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		cell = strings.ReplaceAll(cell, "\n", " ")
		cell = strings.ReplaceAll(cell, "\r", " ")
		out[i] = strings.ToLower(strings.TrimSpace(cell))
	}
	return out
}

// rowText joins a row's normalized cells into one searchable string.
func rowText(row []string) string {
	return strings.Join(lowerCells(row), " ")
}

// cellAt returns the trimmed cell at index i, or "" when the index is
// negative or past the row's end.
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// splitLines splits page text into trimmed, non-empty lines.
func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

var (
	slashDatePattern      = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}`)
	monthDatePattern      = regexp.MustCompile(`^\d{1,2}\s+\w{3}\s+\d{4}$`)
	monthDateShortPattern = regexp.MustCompile(`^\d{1,2}\s+\w{3}\s+\d{2}$`)
)

// isSlashDate reports whether s starts with a DD/MM/YYYY date,
// tolerating the trailing "| HH:MM" time some statement years append.
func isSlashDate(s string) bool {
	return slashDatePattern.MatchString(strings.TrimSpace(s))
}

func isMonthDate(s string) bool {
	return monthDatePattern.MatchString(strings.TrimSpace(s))
}

func isMonthDateShort(s string) bool {
	return monthDateShortPattern.MatchString(strings.TrimSpace(s))
}

// stripTime removes a "| HH:MM" time component from a date cell.
func stripTime(dateStr string) string {
	if i := strings.Index(dateStr, "|"); i >= 0 {
		return strings.TrimSpace(dateStr[:i])
	}
	return strings.TrimSpace(dateStr)
}

var cidEscapePattern = regexp.MustCompile(`\(cid:\d+\)`)

// stripCIDEscapes removes undecoded font escapes that certain
// statement years leak into extracted text.
func stripCIDEscapes(text string) string {
	return strings.TrimSpace(cidEscapePattern.ReplaceAllString(text, ""))
}

// isNameRow reports whether text looks like a customer-name line:
// short, all caps, letters and spaces only.
func isNameRow(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" || len(strings.Fields(t)) > 4 {
		return false
	}
	if t != strings.ToUpper(t) {
		return false
	}
	for _, r := range t {
		if !(r >= 'A' && r <= 'Z') && r != ' ' {
			return false
		}
	}
	return true
}

// containsKeyword reports whether the lowercase form of text contains
// any of the (lowercase) keywords.
func containsKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// stitchAdjacentTables reconciles tables that split a header row from
// its data rows. When a table passes classify but carries at most a
// header row of content, scan forward past blank tables for the first
// table whose rows look like transaction data and concatenate it onto
// the header table. A header-only table with no data sibling on the
// page is kept as-is and parses to zero rows.
func stitchAdjacentTables(tables []document.Table, classify func(document.Table) bool, looksLikeData func(document.Table) bool) []document.Table {
	if len(tables) == 0 {
		return tables
	}

	var out []document.Table
	i := 0
	for i < len(tables) {
		current := tables[i]

		if classify(current) && len(current) <= 2 {
			stitched := false
			for j := i + 1; j < len(tables); j++ {
				candidate := tables[j]
				if len(candidate) == 0 || candidate.IsBlank() {
					continue
				}
				if looksLikeData(candidate) {
					out = append(out, append(append(document.Table{}, current...), candidate...))
					i = j + 1
					stitched = true
				}
				break
			}
			if stitched {
				continue
			}
			out = append(out, current)
			i++
			continue
		}

		out = append(out, current)
		i++
	}
	return out
}
