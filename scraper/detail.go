package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	dps "github.com/markusmobius/go-dateparser"
	"github.com/pevans/kboarchive/clip"
)

// Layouts the platform is known to use, tried before natural-language
// parsing.
var dateLayouts = []string{
	"2006.01.02.",
	"2006.01.02",
	"2006.1.2.",
	"2006-01-02",
	"2006/01/02",
}

// ExtractDateText returns the broadcast date text from a clip detail page.
func ExtractDateText(doc *goquery.Document, sel Selectors) string {
	return strings.TrimSpace(doc.Find(sel.DetailDate).First().Text())
}

// ParseDate parses free date text into a calendar date. Relative dates such
// as "3일 전" are resolved against now. The wall-clock date is kept as is and
// read as KST.
func ParseDate(text string, now time.Time) (clip.Date, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return clip.Date{}, fmt.Errorf("empty date text")
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, text, clip.KST); err == nil {
			return dateOf(t), nil
		}
	}

	cfg := &dps.Configuration{
		Languages:       []string{"ko", "en"},
		DefaultTimezone: clip.KST,
		CurrentTime:     now.In(clip.KST),
	}
	parsed, err := dps.Parse(cfg, text)
	if err != nil {
		return clip.Date{}, fmt.Errorf("failed to parse date %q: %w", text, err)
	}
	if parsed.Time.IsZero() {
		return clip.Date{}, fmt.Errorf("failed to parse date %q", text)
	}

	return dateOf(parsed.Time), nil
}

func dateOf(t time.Time) clip.Date {
	return clip.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}
