package scraper

// Selectors defines where clip data lives in the platform's markup.
type Selectors struct {
	SearchResult string `yaml:"search_result"`
	Length       string `yaml:"length"`
	TitleLink    string `yaml:"title_link"` // carries both title and href
	ChannelLink  string `yaml:"channel_link"`
	DetailDate   string `yaml:"detail_date"`
	Paging       string `yaml:"paging"`
	CurrentPage  string `yaml:"current_page"`
	LastPage     string `yaml:"last_page"` // carries data-page
}

// DefaultSelectors returns the selectors for the current Naver TV markup.
func DefaultSelectors() Selectors {
	return Selectors{
		SearchResult: "div#clip_list div.thl div.thl_a",
		Length:       "a.cds_thm span.tm_b",
		TitleLink:    "div.inner dl dt a",
		ChannelLink:  "div.inner dl dd span.ch_txt a",
		DetailDate:   "div#clipInfoArea div.watch_title div.title_info span.date",
		Paging:       "div#clipPaging div.paging_wrap",
		CurrentPage:  "strong.page span.num",
		LastPage:     "a.next_end",
	}
}

// Merge returns s with every empty field taken from the defaults.
func (s Selectors) Merge() Selectors {
	d := DefaultSelectors()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&s.SearchResult, d.SearchResult)
	fill(&s.Length, d.Length)
	fill(&s.TitleLink, d.TitleLink)
	fill(&s.ChannelLink, d.ChannelLink)
	fill(&s.DetailDate, d.DetailDate)
	fill(&s.Paging, d.Paging)
	fill(&s.CurrentPage, d.CurrentPage)
	fill(&s.LastPage, d.LastPage)
	return s
}
