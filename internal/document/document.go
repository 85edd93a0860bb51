// Package document is the boundary between raw statement PDFs and the
// parsing engine. It turns document bytes into page-level text and
// tables so that issuer parsers never touch PDF internals.
package document

// Table is a 2-D grid of text cells. Cells may be empty; a header row
// may sit at index 0 or be buried at an arbitrary row.
type Table [][]string

// Page holds one page's extracted content. Text preserves newlines;
// Tables are reconstructed from the page's text geometry.
type Page struct {
	Tables []Table
	Text   string
}

// Document is a fully extracted statement, pages in document order.
type Document struct {
	Pages []Page
}

// IsBlank reports whether every cell of the table is empty.
func (t Table) IsBlank() bool {
	for _, row := range t {
		for _, cell := range row {
			if cell != "" {
				return false
			}
		}
	}
	return true
}
