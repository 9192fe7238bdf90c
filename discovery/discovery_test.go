package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/kboarchive/clip"
	"github.com/pevans/kboarchive/config"
	"github.com/pevans/kboarchive/gamefeed"
	"github.com/pevans/kboarchive/pipeline"
	"github.com/pevans/kboarchive/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: serves canned pages by URL and records requests
type fakeFetcher struct {
	pages    map[string]string
	errs     map[string]error
	requests []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	f.requests = append(f.requests, url)
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("HTTP error: 404 Not Found")
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (f *fakeFetcher) searchRequests() int {
	n := 0
	for _, r := range f.requests {
		if strings.Contains(r, "/search/clip") {
			n++
		}
	}
	return n
}

type result struct {
	id, title, length, channel, date string
}

// Test helper: register a search page and the detail pages of its results
func (f *fakeFetcher) addPage(t *testing.T, clipType clip.Type, current, last int, results ...result) {
	var snippets []string
	for _, r := range results {
		snippets = append(snippets, fmt.Sprintf(`
<div class="thl"><div class="thl_a">
  <a class="cds_thm" href="/v/%[1]s"><span class="tm_b">%[3]s</span></a>
  <div class="inner"><dl>
    <dt><a href="/v/%[1]s?query=kbo" title="%[2]s">%[2]s</a></dt>
    <dd><span class="ch_txt"><a href="%[4]s">channel</a></span></dd>
  </dl></div>
</div></div>`, r.id, r.title, r.length, r.channel))

		f.pages[scraper.BaseURL+"/v/"+r.id] = fmt.Sprintf(`<div id="clipInfoArea"><div class="watch_title">
<div class="title_info"><span class="date">%s</span></div></div></div>`, r.date)
	}

	url, err := scraper.SearchURL(clipType, current)
	require.NoError(t, err)
	f.pages[url] = fmt.Sprintf(`<html><body>
<div id="clip_list">%s</div>
<div id="clipPaging"><div class="paging_wrap">
  <strong class="page"><span class="num">%d</span></strong>
  <a class="next_end" data-page="%d" href="#">end</a>
</div></div></body></html>`, strings.Join(snippets, "\n"), current, last)
}

func testConfig(clipType clip.Type, maxPages int) *config.RunConfig {
	day := time.Date(2020, 5, 16, 0, 0, 0, 0, clip.KST)
	return &config.RunConfig{
		ClipType:    clipType,
		StartDate:   day,
		EndDate:     day,
		MaxNumPages: maxPages,
		DryRun:      true,
	}
}

func newTestCrawler(cfg *config.RunConfig, f *fakeFetcher, feed *gamefeed.Feed) *Crawler {
	sel := scraper.DefaultSelectors()
	p := pipeline.New(cfg, nil, nil, nil)
	return NewCrawler(cfg, f, NewEnricher(f, sel, feed), p, sel)
}

var skAtNC = result{id: "13385497", title: "SK-NC 풀영상", length: "4:23:33", channel: "/wyvernsvod", date: "2020.05.16."}

// TestNextPage verifies the pagination decision
func TestNextPage(t *testing.T) {
	tests := []struct {
		name    string
		paging  scraper.Paging
		fetched int
		max     int
		want    int
		wantOK  bool
	}{
		{"more pages", scraper.Paging{Current: 1, Last: 5}, 1, 3, 2, true},
		{"last page reached", scraper.Paging{Current: 5, Last: 5}, 1, 10, 0, false},
		{"budget spent", scraper.Paging{Current: 3, Last: 5}, 3, 3, 0, false},
		{"single page budget", scraper.Paging{Current: 1, Last: 5}, 1, 1, 0, false},
		{"last page and budget", scraper.Paging{Current: 2, Last: 2}, 2, 2, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextPage(tt.paging, tt.fetched, tt.max)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestCrawl_ReferenceScenario verifies the SK-NC full game is accepted
func TestCrawl_ReferenceScenario(t *testing.T) {
	f := newFakeFetcher()
	f.addPage(t, clip.FullGame, 1, 1, skAtNC)

	run, err := newTestCrawler(testConfig(clip.FullGame, 1), f, nil).Crawl(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Done, run.State)
	assert.Equal(t, 1, run.PagesFetched)
	assert.Equal(t, 1, run.Discovered)
	assert.Equal(t, 1, run.Accepted)
	assert.Equal(t, 0, run.Rejected)
}

// TestCrawl_MinLengthRejection verifies the length rejection is counted
func TestCrawl_MinLengthRejection(t *testing.T) {
	f := newFakeFetcher()
	f.addPage(t, clip.FullGame, 1, 1, skAtNC)
	cfg := testConfig(clip.FullGame, 1)
	minLength := 16000
	cfg.MinClipLength = &minLength

	run, err := newTestCrawler(cfg, f, nil).Crawl(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, run.Accepted)
	assert.Equal(t, 1, run.Rejected)
	assert.Equal(t, 1, run.Rejections[pipeline.StageLength])
}

// TestCrawl_PageBudget verifies no more than max pages are fetched
func TestCrawl_PageBudget(t *testing.T) {
	f := newFakeFetcher()
	for page := 1; page <= 5; page++ {
		f.addPage(t, clip.FullGame, page, 5, result{
			id: fmt.Sprint(page), title: "LG-두산 풀영상", length: "3:00:00", channel: "/bearsvod", date: "2020.05.16.",
		})
	}

	run, err := newTestCrawler(testConfig(clip.FullGame, 3), f, nil).Crawl(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, run.PagesFetched)
	assert.Equal(t, 3, f.searchRequests())
	assert.Equal(t, 3, run.Accepted)
}

// TestCrawl_LastPage verifies the crawl stops at the reported last page
func TestCrawl_LastPage(t *testing.T) {
	f := newFakeFetcher()
	f.addPage(t, clip.FullGame, 1, 2)
	f.addPage(t, clip.FullGame, 2, 2)

	run, err := newTestCrawler(testConfig(clip.FullGame, 10), f, nil).Crawl(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, run.PagesFetched)
	assert.Equal(t, 2, f.searchRequests())
}

// TestCrawl_PageOrder verifies page one's clips are enriched before page two
// is fetched
func TestCrawl_PageOrder(t *testing.T) {
	f := newFakeFetcher()
	f.addPage(t, clip.FullGame, 1, 2,
		result{id: "1", title: "SK-NC 풀영상", length: "4:00:00", channel: "/wyvernsvod", date: "2020.05.16."},
		result{id: "2", title: "LG-KT 풀영상", length: "4:00:00", channel: "/ktwizvod", date: "2020.05.16."},
	)
	f.addPage(t, clip.FullGame, 2, 2,
		result{id: "3", title: "롯데-삼성 풀영상", length: "4:00:00", channel: "/lionsvod", date: "2020.05.16."},
	)

	_, err := newTestCrawler(testConfig(clip.FullGame, 2), f, nil).Crawl(context.Background())
	require.NoError(t, err)

	page1, _ := scraper.SearchURL(clip.FullGame, 1)
	page2, _ := scraper.SearchURL(clip.FullGame, 2)
	assert.Equal(t, []string{
		page1,
		"https://tv.naver.com/v/1",
		"https://tv.naver.com/v/2",
		page2,
		"https://tv.naver.com/v/3",
	}, f.requests)
}

// TestCrawl_MissingPaging verifies a page without paging metadata aborts
func TestCrawl_MissingPaging(t *testing.T) {
	f := newFakeFetcher()
	url, _ := scraper.SearchURL(clip.FullGame, 1)
	f.pages[url] = `<html><body><div id="clip_list"></div></body></html>`

	_, err := newTestCrawler(testConfig(clip.FullGame, 1), f, nil).Crawl(context.Background())
	assert.ErrorIs(t, err, scraper.ErrMissingPaging)
}

// TestCrawl_MalformedLength verifies a malformed length aborts
func TestCrawl_MalformedLength(t *testing.T) {
	f := newFakeFetcher()
	f.addPage(t, clip.FullGame, 1, 1, result{id: "1", title: "SK-NC 풀영상", length: "soon", channel: "/wyvernsvod"})

	_, err := newTestCrawler(testConfig(clip.FullGame, 1), f, nil).Crawl(context.Background())
	assert.ErrorIs(t, err, clip.ErrMalformedLength)
}

// TestCrawl_DetailFetchFailure verifies one failing clip does not stop the
// run
func TestCrawl_DetailFetchFailure(t *testing.T) {
	f := newFakeFetcher()
	f.addPage(t, clip.FullGame, 1, 1,
		result{id: "1", title: "SK-NC 풀영상", length: "4:00:00", channel: "/wyvernsvod", date: "2020.05.16."},
		result{id: "2", title: "LG-KT 풀영상", length: "4:00:00", channel: "/ktwizvod", date: "2020.05.16."},
	)
	f.errs["https://tv.naver.com/v/1"] = errors.New("connection reset")

	run, err := newTestCrawler(testConfig(clip.FullGame, 1), f, nil).Crawl(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, run.Failed)
	assert.Equal(t, 1, run.Accepted)
}

// TestCrawl_UnparseableDate verifies clips without a date are rejected at
// the date stage
func TestCrawl_UnparseableDate(t *testing.T) {
	f := newFakeFetcher()
	f.addPage(t, clip.FullGame, 1, 1, result{id: "1", title: "SK-NC 풀영상", length: "4:00:00", channel: "/wyvernsvod", date: ""})

	run, err := newTestCrawler(testConfig(clip.FullGame, 1), f, nil).Crawl(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, run.Rejections[pipeline.StageDate])
}

// TestCrawl_Condensed verifies the away team is recovered from the feed
func TestCrawl_Condensed(t *testing.T) {
	feed := gamefeed.New([]gamefeed.Row{
		{HomeTeam: "SK Wyverns", AwayTeam: "NC Dinos", Date: clip.Date{Year: 2020, Month: 5, Day: 16}},
	})
	f := newFakeFetcher()
	f.addPage(t, clip.CondensedGame, 1, 1,
		result{id: "1", title: "[전체HL] 5월 16일 NC vs SK", length: "25:00", channel: "/wyvernsvod", date: "2020.05.16."},
		result{id: "2", title: "[전체HL] 5월 16일 KT vs LG", length: "25:00", channel: "/twinsvod", date: "2020.05.16."},
	)

	cfg := testConfig(clip.CondensedGame, 1)
	maxLength := 3600
	cfg.MaxClipLength = &maxLength

	run, err := newTestCrawler(cfg, f, feed).Crawl(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, run.Accepted)
	assert.Equal(t, 1, run.Rejected)
	assert.Equal(t, 1, run.Rejections[pipeline.StageTeam])
}

// TestCrawl_Cancelled verifies a cancelled context stops the run
func TestCrawl_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := newTestCrawler(testConfig(clip.FullGame, 1), newFakeFetcher(), nil).Crawl(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, run.PagesFetched)
}

// TestEnricher_Condensed verifies feed lookup by home team and date
func TestEnricher_Condensed(t *testing.T) {
	feed := gamefeed.New([]gamefeed.Row{
		{HomeTeam: "LG Twins", AwayTeam: "KT Wiz", Date: clip.Date{Year: 2020, Month: 5, Day: 15}},
		{HomeTeam: "LG Twins", AwayTeam: "Doosan Bears", Date: clip.Date{Year: 2020, Month: 5, Day: 16}},
	})
	e := NewEnricher(newFakeFetcher(), scraper.DefaultSelectors(), feed)

	c := clip.Candidate{ID: "9", Type: clip.CondensedGame, HomeTeam: "LG Twins"}

	enriched := e.enrichFromDetail(c, "2020.05.16.")
	require.NotNil(t, enriched.Date)
	assert.Equal(t, clip.Date{Year: 2020, Month: 5, Day: 16}, *enriched.Date)
	assert.Equal(t, "Doosan Bears", enriched.AwayTeam)

	enriched = e.enrichFromDetail(c, "2020.05.17.")
	assert.Equal(t, clip.UnknownTeam, enriched.AwayTeam)

	enriched = e.enrichFromDetail(c, "")
	assert.Nil(t, enriched.Date)
	assert.Equal(t, "", enriched.AwayTeam)
}

// TestEnricher_FullGameKeepsTeams verifies full games ignore the feed
func TestEnricher_FullGameKeepsTeams(t *testing.T) {
	e := NewEnricher(newFakeFetcher(), scraper.DefaultSelectors(), nil)
	c := clip.Candidate{Type: clip.FullGame, HomeTeam: "NC Dinos", AwayTeam: "SK Wyverns"}

	enriched := e.enrichFromDetail(c, "2020-05-16")
	assert.Equal(t, "SK Wyverns", enriched.AwayTeam)
	assert.Equal(t, "NC Dinos", enriched.HomeTeam)
}

// TestHTTPFetcher verifies headers, parsing and HTTP errors
func TestHTTPFetcher(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><body><span class="date">2020.05.16.</span></body></html>`)
	}))
	defer server.Close()

	f := NewHTTPFetcher(5*time.Second, "kboarchive-test")

	doc, err := f.Fetch(context.Background(), server.URL+"/v/1")
	require.NoError(t, err)
	assert.Equal(t, "2020.05.16.", doc.Find("span.date").Text())
	assert.Equal(t, "kboarchive-test", gotUA)

	_, err = f.Fetch(context.Background(), server.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP error: 404")
}

// TestState_String verifies state names, including unknown states
func TestState_String(t *testing.T) {
	assert.Equal(t, "FetchingSearchPage", FetchingSearchPage.String())
	assert.Equal(t, "Done", Done.String())
	assert.Equal(t, "State(9)", State(9).String())
}
