package parser

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/Navdevl/chris-cred-reader/internal/document"
)

func TestSBIParseMultiLineCells(t *testing.T) {
	p := &SBIParser{log: zerolog.Nop()}

	doc := &document.Document{Pages: []document.Page{{
		Tables: []document.Table{{
			{"Date", "Transaction Details", "Amount ( ` )"},
			{
				"28 Nov 24\n29 Nov 24",
				"FUEL SURCHARGE WAIVER EXCL TAX\nAMAZON RETAIL PURCHASE",
				"5.04 C\n1,200.00 D",
			},
		}},
	}}}

	txns, err := p.Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("got %d transactions, want 2: %v", len(txns), txns)
	}

	if txns[0].Date != "2024-11-28" {
		t.Errorf("date: got %q, want 2024-11-28", txns[0].Date)
	}
	if txns[0].Amount.String() != "-5.04" {
		t.Errorf("' C' credit amount: got %s, want -5.04", txns[0].Amount)
	}
	if txns[1].Date != "2024-11-29" {
		t.Errorf("date: got %q, want 2024-11-29", txns[1].Date)
	}
	if txns[1].Amount.String() != "1200" {
		t.Errorf("' D' debit amount: got %s, want 1200", txns[1].Amount)
	}
}

// Misaligned cells pair up only to the shortest list, so a stray date
// never borrows a stranger's amount.
func TestSBIShortestListAlignment(t *testing.T) {
	p := &SBIParser{log: zerolog.Nop()}

	doc := &document.Document{Pages: []document.Page{{
		Tables: []document.Table{{
			{"Date", "Transaction Details", "Amount ( ` )"},
			{
				"01 Dec 24\n02 Dec 24\n03 Dec 24",
				"GROCERY STORE CHENNAI\nMOBILE RECHARGE",
				"450.00 D\n199.00 D",
			},
		}},
	}}}

	txns, err := p.Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("got %d transactions, want 2: %v", len(txns), txns)
	}
	if txns[1].Date != "2024-12-02" || txns[1].Amount.String() != "199" {
		t.Errorf("alignment broken: %+v", txns[1])
	}
}

func TestSBIPaymentReference(t *testing.T) {
	p := &SBIParser{log: zerolog.Nop()}

	doc := &document.Document{Pages: []document.Page{{
		Tables: []document.Table{{
			{"Date", "Transaction Details", "Amount ( ` )"},
			{"05 Dec 24", "PAYMENT RECEIVED 000DP123ABC456", "3,000.00 C"},
		}},
	}}}

	txns, err := p.Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("got %d transactions, want 1: %v", len(txns), txns)
	}
	if txns[0].TxnID != "000DP123ABC456" {
		t.Errorf("payment ref id: got %q, want 000DP123ABC456", txns[0].TxnID)
	}
	if txns[0].Amount.String() != "-3000" {
		t.Errorf("credit amount: got %s, want -3000", txns[0].Amount)
	}
}

func TestSBITextFallback(t *testing.T) {
	p := &SBIParser{log: zerolog.Nop()}

	doc := &document.Document{Pages: []document.Page{{
		Text: "SBI Card Statement\n28 Nov 24 SWIGGY INSTAMART BANGALORE 320.50 D\nPrevious Balance 12,000.00\n",
	}}}

	txns, err := p.Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("got %d transactions, want 1: %v", len(txns), txns)
	}
	if txns[0].Date != "2024-11-28" {
		t.Errorf("date: got %q, want 2024-11-28", txns[0].Date)
	}
	if txns[0].Amount.String() != "320.5" {
		t.Errorf("amount: got %s, want 320.5", txns[0].Amount)
	}
}

// Header fragments that leak into the details column are filtered even
// when they align with a date and amount.
func TestSBIHeaderDescriptionFiltered(t *testing.T) {
	p := &SBIParser{log: zerolog.Nop()}

	doc := &document.Document{Pages: []document.Page{{
		Tables: []document.Table{{
			{"Date", "Transaction Details", "Amount ( ` )"},
			{"28 Nov 24\n29 Nov 24", "Previous Balance\nDOMINOS PIZZA", "900.00 D\n550.00 D"},
		}},
	}}}

	txns, err := p.Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("got %d transactions, want 1: %v", len(txns), txns)
	}
	if txns[0].Description != "DOMINOS PIZZA" {
		t.Errorf("description: got %q, want DOMINOS PIZZA", txns[0].Description)
	}
}
