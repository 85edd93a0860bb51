// Package api exposes statement conversion over HTTP for callers that
// cannot shell out to the CLI.
package api

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Navdevl/chris-cred-reader/internal/models"
	"github.com/Navdevl/chris-cred-reader/internal/processor"
)

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	Bank         string               `json:"bank,omitempty"`
	Transactions []models.Transaction `json:"transactions"`
	TotalDebit   decimal.Decimal      `json:"totalDebit"`
	TotalCredit  decimal.Decimal      `json:"totalCredit"`
	Count        int                  `json:"count"`
}

// Handler holds the HTTP handlers.
type Handler struct {
	Log zerolog.Logger
}

// Register sets up the API routes on the fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/convert", h.HandleConvert)
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "engine": "fiber"})
}

// HandleConvert accepts a multipart statement upload with "bank" and
// "password" form fields and returns the extracted transactions.
// Document-level failures come back as a JSON error, not a 5xx, so
// batch callers can triage per file.
func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ConvertResponse{Error: "missing statement file"})
	}

	bank := c.FormValue("bank")
	if !models.IsSupportedBank(bank) {
		return c.Status(fiber.StatusBadRequest).JSON(ConvertResponse{Error: "unsupported or missing bank"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ConvertResponse{Error: "unreadable upload"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ConvertResponse{Error: "unreadable upload"})
	}

	file := models.StatementFile{
		Filename: fileHeader.Filename,
		Bank:     bank,
		Password: c.FormValue("password"),
	}

	txns, err := processor.ExtractTransactions(data, file, h.Log)
	if err != nil {
		h.Log.Error().Str("file", file.Filename).Str("bank", bank).Err(err).Msg("conversion failed")
		return c.JSON(ConvertResponse{Error: err.Error(), Bank: bank, Transactions: []models.Transaction{}})
	}

	resp := ConvertResponse{
		Success:      true,
		Bank:         bank,
		Transactions: txns,
		Count:        len(txns),
	}
	for _, t := range txns {
		if t.Amount.IsNegative() {
			resp.TotalCredit = resp.TotalCredit.Add(t.Amount.Abs())
		} else {
			resp.TotalDebit = resp.TotalDebit.Add(t.Amount)
		}
	}
	return c.JSON(resp)
}
