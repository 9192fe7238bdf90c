package scraper

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/kboarchive/clip"
)

// BaseURL is the platform root every clip URL is rebuilt against.
const BaseURL = "https://tv.naver.com"

var (
	ErrMissingPaging = errors.New("missing paging metadata")
	ErrMissingLink   = errors.New("search result has no clip link")
)

var (
	fullGameTitle      = regexp.MustCompile(`^([^-\s]+)-([^-\s]+) 풀영상$`)
	condensedGameTitle = regexp.MustCompile(`^\[?전체HL\]? -?(.+)$`)
)

// ParseSearchPage extracts clip candidates from one page of search results,
// in page order.
func ParseSearchPage(doc *goquery.Document, sel Selectors) ([]clip.Candidate, error) {
	var candidates []clip.Candidate
	var parseErr error

	doc.Find(sel.SearchResult).EachWithBreak(func(i int, s *goquery.Selection) bool {
		c, err := parseSearchResult(s, sel)
		if err != nil {
			parseErr = fmt.Errorf("failed to parse search result %d: %w", i, err)
			return false
		}
		candidates = append(candidates, c)
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}
	return candidates, nil
}

func parseSearchResult(s *goquery.Selection, sel Selectors) (clip.Candidate, error) {
	link := s.Find(sel.TitleLink).First()

	// Title is carried in the title attribute; older markup only has text
	title, ok := link.Attr("title")
	if !ok {
		title = link.Text()
	}
	title = strings.Join(strings.Fields(title), " ")

	href, ok := link.Attr("href")
	if !ok || href == "" {
		return clip.Candidate{}, ErrMissingLink
	}
	clipURL, err := url.Parse(href)
	if err != nil {
		return clip.Candidate{}, fmt.Errorf("invalid clip URL %q: %w", href, err)
	}

	length, err := clip.ParseLength(s.Find(sel.Length).First().Text())
	if err != nil {
		return clip.Candidate{}, err
	}

	channelHref, _ := s.Find(sel.ChannelLink).First().Attr("href")

	c := clip.Candidate{
		ID:      ClipID(clipURL),
		Title:   title,
		URL:     CanonicalURL(clipURL),
		Length:  length,
		Channel: ChannelPath(channelHref),
	}
	Classify(&c)

	return c, nil
}

// Classify decides the clip type from its title and resolves the team names
// that can be known before enrichment.
func Classify(c *clip.Candidate) {
	if m := fullGameTitle.FindStringSubmatch(c.Title); m != nil {
		c.Type = clip.FullGame
		c.AwayTeam = clip.TeamByShortName(m[1])
		c.HomeTeam = clip.TeamByShortName(m[2])
		return
	}

	if condensedGameTitle.MatchString(c.Title) {
		c.Type = clip.CondensedGame
		c.HomeTeam = clip.TeamByChannel(c.Channel)
		c.AwayTeam = ""
		return
	}

	c.Type = clip.Unknown
	c.HomeTeam = clip.UnknownTeam
	c.AwayTeam = clip.UnknownTeam
}

// ClipID returns the opaque clip identifier, the last segment of the watch
// path.
func ClipID(u *url.URL) string {
	return path.Base(strings.TrimSuffix(u.Path, "/"))
}

// CanonicalURL rebuilds a watch URL on the platform root with the query and
// fragment dropped.
func CanonicalURL(u *url.URL) string {
	return BaseURL + u.Path
}

// ChannelPath reduces a channel link, relative or absolute, to its path.
func ChannelPath(href string) string {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return strings.TrimSuffix(u.Path, "/")
}
