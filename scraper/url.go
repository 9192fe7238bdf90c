package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pevans/kboarchive/clip"
)

// SearchURL builds the clip search URL for a target clip type and page.
// Spaces are encoded as %20, which the platform expects.
func SearchURL(t clip.Type, page int) (string, error) {
	var query string
	switch t {
	case clip.FullGame:
		query = `"풀영상" "KBO리그"`
	case clip.CondensedGame:
		query = `"[전체HL]" "KBO리그"`
	default:
		return "", fmt.Errorf("%w: cannot search for %s clips", clip.ErrInvalidType, t)
	}

	v := url.Values{}
	v.Set("query", query)
	v.Set("sort", "date")
	v.Set("isTag", "false")
	v.Set("page", fmt.Sprint(page))

	return BaseURL + "/search/clip?" + strings.ReplaceAll(v.Encode(), "+", "%20"), nil
}
