// Package dedup suppresses repeated transactions, both within one
// document's extraction passes and against records from prior runs.
package dedup

import "github.com/Navdevl/chris-cred-reader/internal/models"

// Key returns the stable duplicate key for a transaction.
func Key(t models.Transaction) string {
	return t.DuplicateKey()
}

// Deduper tracks seen duplicate keys. The caller seeds it with keys
// from previously recorded data; Filter then drops any transaction
// whose key was already seen, keeping first occurrences in order.
// Matching is exact: transactions differing in any field are distinct.
type Deduper struct {
	seen map[string]bool
}

// New creates a Deduper pre-seeded with previously seen keys.
func New(seenKeys []string) *Deduper {
	seen := make(map[string]bool, len(seenKeys))
	for _, k := range seenKeys {
		seen[k] = true
	}
	return &Deduper{seen: seen}
}

// Filter returns the transactions not seen before, marking each
// survivor as seen so later calls within the same run also dedup.
func (d *Deduper) Filter(txns []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		k := Key(t)
		if d.seen[k] {
			continue
		}
		d.seen[k] = true
		out = append(out, t)
	}
	return out
}

// Seen reports whether the key was already recorded.
func (d *Deduper) Seen(key string) bool {
	return d.seen[key]
}
