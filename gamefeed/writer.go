package gamefeed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pevans/kboarchive/clip"
)

// Writer appends archived full games to a feed file so later condensed
// runs can use it as their reference feed.
type Writer struct {
	path string
}

// NewWriter returns a writer for the feed file at path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Append writes one row per clip and returns how many rows were written.
// The header is written when the file is new or empty. Clips without a date
// and games the file already lists are skipped, so archiving the same game
// again leaves the feed unchanged.
func (w *Writer) Append(clips ...clip.Clip) (int, error) {
	seen, err := w.rows()
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open feed for writing: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat feed: %w", err)
	}

	cw := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := cw.Write(Columns); err != nil {
			return 0, fmt.Errorf("failed to write feed header: %w", err)
		}
	}

	written := 0
	for _, c := range clips {
		if c.Date == nil {
			continue
		}
		row := Row{HomeTeam: c.HomeTeam, AwayTeam: c.AwayTeam, Date: *c.Date}
		if seen[row] {
			continue
		}
		seen[row] = true

		record := []string{
			row.HomeTeam,
			row.AwayTeam,
			strconv.Itoa(row.Date.Year),
			strconv.Itoa(row.Date.Month),
			strconv.Itoa(row.Date.Day),
		}
		if err := cw.Write(record); err != nil {
			return written, fmt.Errorf("failed to write feed row: %w", err)
		}
		written++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return written, fmt.Errorf("failed to flush feed: %w", err)
	}
	return written, nil
}

// rows returns the games already in the feed file. A missing file has none.
func (w *Writer) rows() (map[Row]bool, error) {
	seen := map[Row]bool{}

	f, err := os.Open(w.path)
	if errors.Is(err, os.ErrNotExist) {
		return seen, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open feed: %w", err)
	}
	defer f.Close()

	feed, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed %s: %w", w.path, err)
	}
	for _, row := range feed.rows {
		seen[row] = true
	}
	return seen, nil
}
