package document

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Document-level failure classes. Both yield zero transactions; the
// distinction matters only for the operator-facing reason string.
var (
	ErrWrongPassword = errors.New("wrong document password")
	ErrCorruptFile   = errors.New("corrupt or unreadable document")
)

// Open loads an optionally password-protected statement PDF and
// extracts per-page text and tables. pdfcpu handles decryption,
// ledongthuc/pdf does the text extraction.
func Open(data []byte, password string) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: PDF library crashed: %v", ErrCorruptFile, r)
		}
	}()

	plain, err := decrypt(data, password)
	if err != nil {
		return nil, err
	}

	r, err := pdf.NewReader(bytes.NewReader(plain), int64(len(plain)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}

	doc = &Document{}
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, Page{})
			continue
		}
		doc.Pages = append(doc.Pages, extractPage(page))
	}
	return doc, nil
}

// decrypt strips encryption with the user password. Unencrypted input
// passes through unchanged.
func decrypt(data []byte, password string) ([]byte, error) {
	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password

	var out bytes.Buffer
	if err := api.Decrypt(bytes.NewReader(data), &out, conf); err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "not encrypted") {
			return data, nil
		}
		if strings.Contains(msg, "password") || strings.Contains(msg, "authentication") {
			return nil, fmt.Errorf("%w: %v", ErrWrongPassword, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}
	return out.Bytes(), nil
}

// columnGap is the horizontal gap, in PDF points, treated as a cell
// boundary when reconstructing table rows from text geometry.
const columnGap = 14.0

type word struct {
	x float64
	s string
}

type textRow struct {
	y     float64
	cells []string
}

// extractPage reads one page's positioned text and rebuilds both the
// plain-text view (newline per row) and a table view. Rows are
// grouped by Y coordinate; cells split where the X gap between words
// exceeds columnGap.
func extractPage(page pdf.Page) Page {
	content := page.Content()

	rowMap := make(map[int][]word)
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		yKey := int(math.Round(t.Y))
		rowMap[yKey] = append(rowMap[yKey], word{x: t.X, s: t.S})
	}

	yKeys := make([]int, 0, len(rowMap))
	for y := range rowMap {
		yKeys = append(yKeys, y)
	}
	// PDF Y runs bottom-to-top
	sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

	var rows []textRow
	for _, y := range yKeys {
		items := rowMap[y]
		sort.Slice(items, func(a, b int) bool { return items[a].x < items[b].x })

		var cells []string
		var cell strings.Builder
		var prevEnd float64
		for j, it := range items {
			if j > 0 && it.x-prevEnd > columnGap {
				cells = append(cells, strings.TrimSpace(cell.String()))
				cell.Reset()
			}
			cell.WriteString(it.s)
			prevEnd = it.x + float64(len(it.s))*4 // rough glyph-width advance
		}
		if c := strings.TrimSpace(cell.String()); c != "" {
			cells = append(cells, c)
		}
		if len(cells) > 0 {
			rows = append(rows, textRow{y: float64(y), cells: cells})
		}
	}

	return Page{
		Text:   buildText(rows),
		Tables: buildTables(rows),
	}
}

func buildText(rows []textRow) string {
	var lines []string
	for _, r := range rows {
		lines = append(lines, strings.Join(r.cells, " "))
	}
	return strings.Join(lines, "\n")
}

// buildTables groups consecutive multi-cell rows into one candidate
// table per run. Single-cell rows break a run: issuer tables on these
// statements are contiguous blocks of columned text.
func buildTables(rows []textRow) []Table {
	var tables []Table
	var current Table

	flush := func() {
		if len(current) > 0 {
			tables = append(tables, normalizeWidth(current))
			current = nil
		}
	}

	for _, r := range rows {
		if len(r.cells) >= 2 {
			current = append(current, r.cells)
		} else {
			flush()
		}
	}
	flush()
	return tables
}

// normalizeWidth pads ragged rows with empty cells so every row has
// the table's maximum column count.
func normalizeWidth(t Table) Table {
	width := 0
	for _, row := range t {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range t {
		for len(row) < width {
			row = append(row, "")
		}
		t[i] = row
	}
	return t
}
