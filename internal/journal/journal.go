// Package journal keeps the local append-only record of every payment
// attempt. The file is plain CSV so the back office can open it directly;
// records are never mutated or deleted.
package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/dwgops/pospay/internal/domain"
)

// RecentLimit caps how many entries a read returns for display.
const RecentLimit = 31

// Journal appends to and reads one CSV file. The periodic journal view
// refresh is a pure read and submission is an append, so the two can share
// the file without coordination.
type Journal struct {
	path string
}

func New(path string) *Journal {
	return &Journal{path: path}
}

// Append writes one entry. An empty customer label is recorded as "None" so
// every row has the same shape.
func (j *Journal) Append(e domain.JournalEntry) error {
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	label := e.CustomerLabel
	if label == "" {
		label = "None"
	}
	record := []string{label, e.AmountText, e.Outcome, strconv.FormatInt(e.UnixTime, 10)}
	if e.AuthCode != "" {
		record = append(record, e.AuthCode)
	}

	w := csv.NewWriter(f)
	if err := w.Write(record); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Recent returns the newest entries first, at most RecentLimit of them.
// A missing file is an empty journal, not an error.
func (j *Journal) Recent() ([]domain.JournalEntry, error) {
	f, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // auth code column is optional
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}

	var entries []domain.JournalEntry
	for i := len(records) - 1; i >= 0 && len(entries) < RecentLimit; i-- {
		rec := records[i]
		if len(rec) < 4 {
			continue
		}
		ts, err := strconv.ParseInt(rec[3], 10, 64)
		if err != nil {
			continue
		}
		e := domain.JournalEntry{
			CustomerLabel: rec[0],
			AmountText:    rec[1],
			Outcome:       rec[2],
			UnixTime:      ts,
		}
		if len(rec) > 4 {
			e.AuthCode = rec[4]
		}
		entries = append(entries, e)
	}
	return entries, nil
}
