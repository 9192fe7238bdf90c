package naming

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pevans/kboarchive/clip"
	orderedmap "github.com/wk8/go-ordered-map"
)

// ShowName is written as the show and artist of every archived clip.
const ShowName = clip.LeagueName

// ThumbnailOffset is where in the clip the thumbnail frame is taken.
const ThumbnailOffset = "00:00:03"

// ThumbnailWidth is the thumbnail width in pixels; height keeps the aspect
// ratio.
const ThumbnailWidth = 640

const condensedMarker = " (condensed)"

var ErrNotNameable = errors.New("clip cannot be named")

// Names is the on-disk identity of a validated clip.
type Names struct {
	Title         string
	DateString    string // YYYY-MM-DD
	FileName      string
	ThumbnailName string
	TmpPath       string
	OutputPath    string
	TmpThumbnail  string
	OutThumbnail  string
}

// For computes the names of a validated clip. It never touches the
// filesystem. Unknown clips and clips without a date cannot be named.
func For(c clip.Clip, tmpDir, outputDir string) (Names, error) {
	if c.Date == nil {
		return Names{}, fmt.Errorf("%w: clip %s has no date", ErrNotNameable, c.ID)
	}
	d := *c.Date

	title := fmt.Sprintf("%s at %s", c.AwayTeam, c.HomeTeam)
	stem := fmt.Sprintf("%s - S%dE%s - %d.%02d.%02d - %s at %s",
		ShowName, d.Year, c.ID, d.Year, d.Month, d.Day, c.AwayTeam, c.HomeTeam)

	switch c.Type {
	case clip.FullGame:
	case clip.CondensedGame:
		title += condensedMarker
		stem += condensedMarker
	case clip.Unknown:
		return Names{}, fmt.Errorf("%w: clip %s has unknown type", ErrNotNameable, c.ID)
	default:
		return Names{}, fmt.Errorf("%w: clip %s has type %d", ErrNotNameable, c.ID, c.Type)
	}

	n := Names{
		Title:         title,
		DateString:    d.String(),
		FileName:      stem + ".mp4",
		ThumbnailName: stem + ".jpg",
	}
	n.TmpPath = filepath.Join(tmpDir, n.FileName)
	n.OutputPath = filepath.Join(outputDir, n.FileName)
	n.TmpThumbnail = filepath.Join(tmpDir, n.ThumbnailName)
	n.OutThumbnail = filepath.Join(outputDir, n.ThumbnailName)

	return n, nil
}

// Tags returns the metadata tags for the clip container, keyed by ffmpeg
// metadata name, in the order they are written.
func (n Names) Tags() *orderedmap.OrderedMap {
	tags := orderedmap.New()
	tags.Set("artist", ShowName)
	tags.Set("show", ShowName)
	tags.Set("title", n.Title)
	tags.Set("date", n.DateString)
	return tags
}
