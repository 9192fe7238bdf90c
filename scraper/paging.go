package scraper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Paging is the platform-reported position of a search page.
type Paging struct {
	Current int
	Last    int
}

// ParsePaging reads the current and last page numbers from a search page.
// Missing or unreadable metadata means the page structure changed and is
// returned as ErrMissingPaging.
func ParsePaging(doc *goquery.Document, sel Selectors) (Paging, error) {
	paging := doc.Find(sel.Paging).First()
	if paging.Length() == 0 {
		return Paging{}, fmt.Errorf("%w: no paging block", ErrMissingPaging)
	}

	current, err := strconv.Atoi(strings.TrimSpace(paging.Find(sel.CurrentPage).First().Text()))
	if err != nil {
		return Paging{}, fmt.Errorf("%w: current page: %v", ErrMissingPaging, err)
	}

	lastText, ok := paging.Find(sel.LastPage).First().Attr("data-page")
	if !ok {
		return Paging{}, fmt.Errorf("%w: no last page", ErrMissingPaging)
	}
	last, err := strconv.Atoi(strings.TrimSpace(lastText))
	if err != nil {
		return Paging{}, fmt.Errorf("%w: last page: %v", ErrMissingPaging, err)
	}

	return Paging{Current: current, Last: last}, nil
}
