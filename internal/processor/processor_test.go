package processor

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Navdevl/chris-cred-reader/internal/config"
	"github.com/Navdevl/chris-cred-reader/internal/logger"
	"github.com/Navdevl/chris-cred-reader/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	inbox := t.TempDir()
	return &config.Config{
		InboxDir:     inbox,
		ProcessedDir: filepath.Join(inbox, "processed"),
		LedgerPath:   filepath.Join(inbox, "ledger.csv"),
		PollInterval: time.Minute,
	}
}

func TestRunCycleEmptyInbox(t *testing.T) {
	p := New(testConfig(t), logger.NewWithWriter(io.Discard))

	summary, err := p.RunCycle()
	require.NoError(t, err)
	assert.NotEmpty(t, summary.RunID)
	assert.Zero(t, summary.Files)
	assert.Zero(t, summary.Succeeded)
}

// A cycle survives every kind of bad file: names that do not follow the
// convention, unsupported issuers, and bytes no PDF reader can open.
// Each failure is recorded with a reason and the cycle completes.
func TestRunCycleBadFiles(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InboxDir, "axis-pw-jul.pdf"), []byte("not a pdf"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InboxDir, "chase-pw-jul.pdf"), []byte("not a pdf"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InboxDir, "badname.pdf"), []byte("not a pdf"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InboxDir, "notes.txt"), []byte("skip me"), 0o644))

	p := New(cfg, logger.NewWithWriter(io.Discard))
	summary, err := p.RunCycle()
	require.NoError(t, err, "bad documents never abort the cycle")

	assert.Equal(t, 3, summary.Files, "non-pdf files are not picked up")
	assert.Zero(t, summary.Succeeded)
	assert.Zero(t, summary.Transactions)
	require.Len(t, summary.Results, 3)
	for _, r := range summary.Results {
		assert.False(t, r.Success)
		assert.NotEmpty(t, r.ErrorMessage)
	}

	// nothing succeeded, so no ledger and no moved files
	_, err = os.Stat(cfg.LedgerPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(cfg.ProcessedDir)
	assert.True(t, os.IsNotExist(err))
}

func TestExtractTransactionsUnsupportedBank(t *testing.T) {
	file := models.StatementFile{Filename: "x.pdf", Bank: "chase"}
	_, err := ExtractTransactions([]byte("not a pdf"), file, logger.NewWithWriter(io.Discard))
	assert.Error(t, err)
}

func TestScanInbox(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b-pw-2.PDF"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a-pw-1.pdf"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "processed"), 0o755))

	files, err := scanInbox(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "a-pw-1.pdf"), files[0])
	assert.Equal(t, filepath.Join(dir, "b-pw-2.PDF"), files[1])
}
