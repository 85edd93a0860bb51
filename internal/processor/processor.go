// Package processor drives the batch pipeline: scan the inbox,
// extract each statement through its issuer parser, dedup against the
// ledger, append survivors and move the file aside.
package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Navdevl/chris-cred-reader/internal/config"
	"github.com/Navdevl/chris-cred-reader/internal/dedup"
	"github.com/Navdevl/chris-cred-reader/internal/document"
	"github.com/Navdevl/chris-cred-reader/internal/models"
	"github.com/Navdevl/chris-cred-reader/internal/parser"
	"github.com/Navdevl/chris-cred-reader/internal/writer"
)

// Processor runs extraction cycles over the configured inbox.
type Processor struct {
	cfg    *config.Config
	log    zerolog.Logger
	ledger *writer.LedgerWriter
}

// New builds a processor from validated configuration.
func New(cfg *config.Config, log zerolog.Logger) *Processor {
	return &Processor{
		cfg:    cfg,
		log:    log,
		ledger: &writer.LedgerWriter{Path: cfg.LedgerPath},
	}
}

// CycleSummary reports one processing cycle's outcome.
type CycleSummary struct {
	RunID        string
	Files        int
	Succeeded    int
	Transactions int
	Results      []models.ProcessingResult
}

// RunCycle processes every statement PDF currently in the inbox.
// Document-level failures are logged and recorded but never abort the
// cycle; only ledger I/O errors propagate.
func (p *Processor) RunCycle() (CycleSummary, error) {
	runID := uuid.NewString()
	log := p.log.With().Str("run_id", runID).Logger()
	summary := CycleSummary{RunID: runID}

	files, err := scanInbox(p.cfg.InboxDir)
	if err != nil {
		return summary, fmt.Errorf("scanning inbox: %w", err)
	}
	if len(files) == 0 {
		log.Info().Msg("no statement files to process")
		return summary, nil
	}

	seenKeys, err := writer.ReadSeenKeys(p.cfg.LedgerPath)
	if err != nil {
		return summary, fmt.Errorf("loading seen keys: %w", err)
	}
	deduper := dedup.New(seenKeys)

	for _, path := range files {
		result := p.processFile(path, deduper, log)
		summary.Files++
		summary.Results = append(summary.Results, result)

		if !result.Success {
			log.Error().
				Str("file", result.File.Filename).
				Str("bank", result.File.Bank).
				Str("reason", result.ErrorMessage).
				Msg("statement failed")
			continue
		}

		if err := p.ledger.Append(result.Transactions); err != nil {
			return summary, fmt.Errorf("appending to ledger: %w", err)
		}
		if err := p.markProcessed(path); err != nil {
			log.Warn().Str("file", result.File.Filename).Err(err).
				Msg("processed but could not move to processed folder")
		}

		summary.Succeeded++
		summary.Transactions += len(result.Transactions)
		log.Info().
			Str("file", result.File.Filename).
			Int("transactions", len(result.Transactions)).
			Msg("statement processed")
	}

	log.Info().
		Int("files", summary.Files).
		Int("succeeded", summary.Succeeded).
		Int("transactions", summary.Transactions).
		Msg("processing cycle complete")
	return summary, nil
}

// RunForever repeats RunCycle on the configured interval until the
// process is stopped.
func (p *Processor) RunForever() error {
	for {
		if _, err := p.RunCycle(); err != nil {
			return err
		}
		time.Sleep(p.cfg.PollInterval)
	}
}

// processFile runs one statement end to end. Every failure below the
// configuration level is folded into the result, not returned.
func (p *Processor) processFile(path string, deduper *dedup.Deduper, log zerolog.Logger) models.ProcessingResult {
	filename := filepath.Base(path)
	result := models.ProcessingResult{ProcessedAt: time.Now()}

	file, err := models.ParseFilename(filename)
	if err != nil {
		result.File = models.StatementFile{Filename: filename}
		result.ErrorMessage = err.Error()
		return result
	}
	result.File = file

	data, err := os.ReadFile(path)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("reading %s: %v", filename, err)
		return result
	}

	txns, err := ExtractTransactions(data, file, log)
	if err != nil {
		result.ErrorMessage = err.Error()
		return result
	}

	result.Transactions = deduper.Filter(txns)
	result.Success = true
	return result
}

// ExtractTransactions opens an encrypted statement and runs its
// issuer's parser. Wrong passphrase, corrupt bytes and an unsupported
// issuer are all document-level errors: zero transactions plus a
// descriptive reason.
func ExtractTransactions(data []byte, file models.StatementFile, log zerolog.Logger) ([]models.Transaction, error) {
	doc, err := document.Open(data, file.Password)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", file.Filename, err)
	}

	pr, err := parser.New(file.Bank, log)
	if err != nil {
		return nil, err
	}

	txns, err := pr.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file.Filename, err)
	}
	return txns, nil
}

// scanInbox lists statement PDFs in dir, sorted by name.
func scanInbox(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".pdf") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// markProcessed moves a handled statement into the processed folder.
func (p *Processor) markProcessed(path string) error {
	if err := os.MkdirAll(p.cfg.ProcessedDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}
	dst := filepath.Join(p.cfg.ProcessedDir, filepath.Base(path))
	if err := os.Rename(path, dst); err != nil {
		return fmt.Errorf("moving to processed: %w", err)
	}
	return nil
}
