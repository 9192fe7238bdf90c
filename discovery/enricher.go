package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/pevans/kboarchive/clip"
	"github.com/pevans/kboarchive/gamefeed"
	"github.com/pevans/kboarchive/logger"
	"github.com/pevans/kboarchive/scraper"
)

// Enricher adds the broadcast date to clip candidates and, for condensed
// games, the away team from the full game feed.
type Enricher struct {
	fetcher   Fetcher
	selectors scraper.Selectors
	feed      *gamefeed.Feed // nil unless the run targets condensed games
	now       func() time.Time
	log       *logger.Logger
}

// NewEnricher creates an enricher. feed may be nil when no condensed game
// will be enriched.
func NewEnricher(fetcher Fetcher, selectors scraper.Selectors, feed *gamefeed.Feed) *Enricher {
	return &Enricher{
		fetcher:   fetcher,
		selectors: selectors,
		feed:      feed,
		now:       time.Now,
		log:       logger.Get("enricher"),
	}
}

// Enrich fetches the candidate's detail page and returns the enriched clip.
// An unparseable date leaves Date nil rather than failing.
func (e *Enricher) Enrich(ctx context.Context, c clip.Candidate) (clip.Clip, error) {
	doc, err := e.fetcher.Fetch(ctx, c.URL)
	if err != nil {
		return clip.Clip{Candidate: c}, fmt.Errorf("failed to fetch clip %s: %w", c.ID, err)
	}

	return e.enrichFromDetail(c, scraper.ExtractDateText(doc, e.selectors)), nil
}

func (e *Enricher) enrichFromDetail(c clip.Candidate, dateText string) clip.Clip {
	enriched := clip.Clip{Candidate: c}

	date, err := scraper.ParseDate(dateText, e.now())
	if err != nil {
		e.log.Debugf("Clip %s: %v", c.ID, err)
		return enriched
	}
	enriched.Date = &date

	switch c.Type {
	case clip.CondensedGame:
		enriched.AwayTeam = e.lookupAwayTeam(c.HomeTeam, date)
	case clip.FullGame, clip.Unknown:
	}

	return enriched
}

func (e *Enricher) lookupAwayTeam(homeTeam string, date clip.Date) string {
	if e.feed == nil {
		return clip.UnknownTeam
	}
	return e.feed.AwayTeam(homeTeam, date)
}
