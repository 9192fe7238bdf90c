package gamefeed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pevans/kboarchive/clip"
)

// Columns is the header of a full game feed file.
var Columns = []string{"home_team_name", "away_team_name", "year", "month", "day"}

var ErrMissingColumn = errors.New("feed is missing a required column")

// Row is one previously archived full game.
type Row struct {
	HomeTeam string
	AwayTeam string
	Date     clip.Date
}

// Feed is an immutable, ordered set of full game rows. Earlier rows win when
// more than one matches.
type Feed struct {
	rows []Row
}

// New builds a feed from rows, copying them.
func New(rows []Row) *Feed {
	return &Feed{rows: append([]Row(nil), rows...)}
}

// Load reads a full game feed file into memory.
func Load(path string) (*Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed: %w", err)
	}
	defer f.Close()

	feed, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed %s: %w", path, err)
	}
	return feed, nil
}

// Read parses feed rows from CSV with a header line. Extra columns are
// ignored.
func Read(r io.Reader) (*Feed, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return New(nil), nil
	}
	if err != nil {
		return nil, err
	}

	index := map[string]int{}
	for i, name := range header {
		index[name] = i
	}
	for _, name := range Columns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		field := func(name string) string {
			if i := index[name]; i < len(record) {
				return record[i]
			}
			return ""
		}

		var date [3]int
		for i, name := range []string{"year", "month", "day"} {
			n, err := strconv.Atoi(field(name))
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s %q", line, name, field(name))
			}
			date[i] = n
		}

		rows = append(rows, Row{
			HomeTeam: field("home_team_name"),
			AwayTeam: field("away_team_name"),
			Date:     clip.Date{Year: date[0], Month: date[1], Day: date[2]},
		})
	}

	return New(rows), nil
}

// Len returns the number of rows.
func (f *Feed) Len() int {
	return len(f.rows)
}

// AwayTeam returns the away team of the first row with the given home team
// and date, or clip.UnknownTeam when none matches.
func (f *Feed) AwayTeam(homeTeam string, date clip.Date) string {
	for _, row := range f.rows {
		if row.HomeTeam == homeTeam && row.Date == date {
			return row.AwayTeam
		}
	}
	return clip.UnknownTeam
}
