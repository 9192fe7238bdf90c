package clip

import (
	"fmt"
	"strings"
	"time"
)

// KST is the fixed broadcast timezone of the platform. All clip dates and
// run date windows are interpreted in it.
var KST = time.FixedZone("Asia/Seoul", 9*60*60)

// Type classifies a clip by its title. A clip's type is decided once, when
// the search result is parsed, and is never changed afterwards.
type Type int

const (
	Unknown Type = iota
	FullGame
	CondensedGame
)

// String returns the identifier used in configuration and logs.
func (t Type) String() string {
	switch t {
	case FullGame:
		return "full_game"
	case CondensedGame:
		return "condensed_game"
	default:
		return "unknown"
	}
}

// ParseType parses a clip type identifier. Only the two archivable types are
// accepted; "unknown" is never a valid target.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full_game":
		return FullGame, nil
	case "condensed_game":
		return CondensedGame, nil
	default:
		return Unknown, fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

// Date is a broadcast date in KST.
type Date struct {
	Year  int
	Month int
	Day   int
}

// NewDate truncates t to its calendar date in KST.
func NewDate(t time.Time) Date {
	t = t.In(KST)
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// Time returns midnight of the date in KST.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, KST)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Candidate is a clip as extracted from one search result snippet, before its
// detail page has been fetched.
type Candidate struct {
	ID       string
	Type     Type
	Title    string
	URL      string
	Length   int // seconds
	Channel  string
	HomeTeam string
	AwayTeam string // empty for condensed clips until enrichment
}

// Clip is a candidate enriched with its broadcast date and, for condensed
// clips, the away team recovered from the reference feed.
type Clip struct {
	Candidate
	Date *Date // nil when the detail page date could not be parsed
}
