package discovery

import (
	"context"
	"errors"
	"fmt"

	"github.com/pevans/kboarchive/clip"
	"github.com/pevans/kboarchive/config"
	"github.com/pevans/kboarchive/logger"
	"github.com/pevans/kboarchive/pipeline"
	"github.com/pevans/kboarchive/scraper"
)

// State is the crawler's position in a run.
type State int

const (
	FetchingSearchPage State = iota
	EnrichingClip
	FetchingNextPage
	Done
)

func (s State) String() string {
	switch s {
	case FetchingSearchPage:
		return "FetchingSearchPage"
	case EnrichingClip:
		return "EnrichingClip"
	case FetchingNextPage:
		return "FetchingNextPage"
	case Done:
		return "Done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Processor consumes enriched clips.
type Processor interface {
	Process(ctx context.Context, c clip.Clip) (*pipeline.Result, error)
}

// Run is the state of one crawl. It is owned by a single Crawl call.
type Run struct {
	State        State
	Page         int // page to fetch next, or the page being enriched
	PagesFetched int
	Paging       scraper.Paging

	Discovered int
	Accepted   int
	Rejected   int
	Failed     int
	Rejections map[pipeline.Stage]int

	queue []clip.Candidate
}

// NewRun returns a run positioned before the first search page.
func NewRun() *Run {
	return &Run{
		State:      FetchingSearchPage,
		Page:       1,
		Rejections: map[pipeline.Stage]int{},
	}
}

// Crawler walks search result pages for one run configuration.
type Crawler struct {
	cfg       *config.RunConfig
	fetcher   Fetcher
	enricher  *Enricher
	processor Processor
	selectors scraper.Selectors
	log       *logger.Logger
}

// NewCrawler creates a crawler.
func NewCrawler(cfg *config.RunConfig, fetcher Fetcher, enricher *Enricher, processor Processor, selectors scraper.Selectors) *Crawler {
	return &Crawler{
		cfg:       cfg,
		fetcher:   fetcher,
		enricher:  enricher,
		processor: processor,
		selectors: selectors,
		log:       logger.Get("crawler"),
	}
}

// Crawl runs until pagination is exhausted or the page budget is spent.
// Pages are fetched strictly in order and each page's clips are fully
// processed before the next page is fetched. Malformed pages abort the run;
// rejected or failing clips do not.
func (c *Crawler) Crawl(ctx context.Context) (*Run, error) {
	run := NewRun()

	for run.State != Done {
		if err := ctx.Err(); err != nil {
			return run, err
		}

		var err error
		switch run.State {
		case FetchingSearchPage:
			err = c.fetchSearchPage(ctx, run)
		case EnrichingClip:
			c.enrichNext(ctx, run)
		case FetchingNextPage:
			c.advance(run)
		}
		if err != nil {
			return run, err
		}
	}

	return run, nil
}

func (c *Crawler) fetchSearchPage(ctx context.Context, run *Run) error {
	url, err := scraper.SearchURL(c.cfg.ClipType, run.Page)
	if err != nil {
		return err
	}

	c.log.Infof("Fetching search page %d", run.Page)
	doc, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to fetch search page %d: %w", run.Page, err)
	}
	run.PagesFetched++

	candidates, err := scraper.ParseSearchPage(doc, c.selectors)
	if err != nil {
		return fmt.Errorf("failed to parse search page %d: %w", run.Page, err)
	}
	if run.Paging, err = scraper.ParsePaging(doc, c.selectors); err != nil {
		return fmt.Errorf("failed to parse search page %d: %w", run.Page, err)
	}

	c.log.Infof("Found %d clips on page %d of %d", len(candidates), run.Paging.Current, run.Paging.Last)
	run.Discovered += len(candidates)
	run.queue = candidates
	run.State = EnrichingClip
	return nil
}

func (c *Crawler) enrichNext(ctx context.Context, run *Run) {
	if len(run.queue) == 0 {
		run.State = FetchingNextPage
		return
	}
	candidate := run.queue[0]
	run.queue = run.queue[1:]

	enriched, err := c.enricher.Enrich(ctx, candidate)
	if err != nil {
		c.log.Errorf("%v", err)
		run.Failed++
		return
	}

	if _, err := c.processor.Process(ctx, enriched); err != nil {
		var rejection *pipeline.Rejection
		if errors.As(err, &rejection) {
			c.log.Warnf("Dropped clip %s (%s): %s", candidate.ID, candidate.Title, rejection.Reason)
			run.Rejected++
			run.Rejections[rejection.Stage]++
			return
		}
		c.log.Errorf("Clip %s: %v", candidate.ID, err)
		run.Failed++
		return
	}

	c.log.Infof("Accepted clip %s (%s)", candidate.ID, candidate.Title)
	run.Accepted++
}

func (c *Crawler) advance(run *Run) {
	next, ok := NextPage(run.Paging, run.PagesFetched, c.cfg.MaxNumPages)
	if !ok {
		run.State = Done
		return
	}
	run.Page = next
	run.State = FetchingSearchPage
}

// NextPage decides which search page to fetch after one has been parsed.
// It stops when the platform reports the last page or when the page budget
// has been fetched.
func NextPage(paging scraper.Paging, pagesFetched, maxPages int) (int, bool) {
	if paging.Current == paging.Last {
		return 0, false
	}
	if pagesFetched >= maxPages {
		return 0, false
	}
	return paging.Current + 1, true
}
