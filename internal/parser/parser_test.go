package parser

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Navdevl/chris-cred-reader/internal/models"
)

func TestNew(t *testing.T) {
	tests := []struct {
		bank     string
		bankName string
	}{
		{"axis", "Axis"},
		{"hdfc", "HDFC"},
		{"sbi", "SBI"},
		{"icici", "ICICI"},
		{"rbl", "RBL"},
	}

	for _, tt := range tests {
		t.Run(tt.bank, func(t *testing.T) {
			p, err := New(tt.bank, zerolog.Nop())
			if err != nil {
				t.Fatalf("New(%q): %v", tt.bank, err)
			}
			if p.BankName() != tt.bankName {
				t.Errorf("BankName(): got %q, want %q", p.BankName(), tt.bankName)
			}
		})
	}
}

func TestNewUnsupported(t *testing.T) {
	for _, bank := range []string{"chase", "", "AXIS"} {
		if _, err := New(bank, zerolog.Nop()); err == nil {
			t.Errorf("New(%q): expected error", bank)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := models.Transaction{Date: "2024-01-15", Description: "MERCHANT", Amount: decimal.NewFromInt(100)}

	tests := []struct {
		name     string
		mutate   func(models.Transaction) models.Transaction
		expected bool
	}{
		{"complete", func(t models.Transaction) models.Transaction { return t }, true},
		{"raw unparsed date still passes", func(t models.Transaction) models.Transaction {
			t.Date = "31/02/2024"
			return t
		}, true},
		{"negative amount passes", func(t models.Transaction) models.Transaction {
			t.Amount = decimal.NewFromInt(-100)
			return t
		}, true},
		{"empty date", func(t models.Transaction) models.Transaction {
			t.Date = ""
			return t
		}, false},
		{"empty description", func(t models.Transaction) models.Transaction {
			t.Description = ""
			return t
		}, false},
		{"zero amount", func(t models.Transaction) models.Transaction {
			t.Amount = decimal.Zero
			return t
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.mutate(valid)); got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFilterValid(t *testing.T) {
	txns := []models.Transaction{
		{Date: "2024-01-15", Description: "KEEP ONE", Amount: decimal.NewFromInt(100)},
		{Date: "", Description: "NO DATE", Amount: decimal.NewFromInt(100)},
		{Date: "2024-01-16", Description: "", Amount: decimal.NewFromInt(100)},
		{Date: "2024-01-17", Description: "ZERO AMT", Amount: decimal.Zero},
		{Date: "2024-01-18", Description: "KEEP TWO", Amount: decimal.NewFromInt(-50)},
	}

	got := filterValid(txns)
	if len(got) != 2 {
		t.Fatalf("got %d transactions, want 2", len(got))
	}
	if got[0].Description != "KEEP ONE" || got[1].Description != "KEEP TWO" {
		t.Errorf("order not preserved: %v", got)
	}
}

func TestRecoverParse(t *testing.T) {
	parse := func() (txns []models.Transaction, err error) {
		defer recoverParse("axis", &txns, &err)
		txns = append(txns, models.Transaction{Description: "PARTIAL"})
		panic("index out of range")
	}

	txns, err := parse()
	if err == nil {
		t.Fatal("expected document-level error")
	}
	if txns != nil {
		t.Errorf("partial result leaked through panic: %v", txns)
	}
}
