package clip

import (
	"errors"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// UnknownTeam stands in for a team name that could not be resolved.
const UnknownTeam = "Unknown Team"

// LeagueName is both the show name used for archived clips and the team
// value of the league-wide channel.
const LeagueName = "KBO League"

// LeagueChannel is the league-wide channel path. It is known but does not
// belong to a team.
const LeagueChannel = "/kbaseball"

var (
	ErrInvalidType     = errors.New("invalid clip type")
	ErrUnknownTeam     = errors.New("unknown team name")
	ErrMalformedLength = errors.New("malformed clip length")
)

// Team is one KBO League club.
type Team struct {
	ShortName string // as used in full game titles
	Name      string
	Channel   string // team VOD channel path
}

// Teams lists the clubs in the order the platform lists their channels.
var Teams = []Team{
	{ShortName: "두산", Name: "Doosan Bears", Channel: "/bearsvod"},
	{ShortName: "한화", Name: "Hanwha Eagles", Channel: "/eaglesvod"},
	{ShortName: "KIA", Name: "Kia Tigers", Channel: "/tigersvod"},
	{ShortName: "키움", Name: "Kiwoom Heroes", Channel: "/heroesvod"},
	{ShortName: "KT", Name: "KT Wiz", Channel: "/ktwizvod"},
	{ShortName: "LG", Name: "LG Twins", Channel: "/twinsvod"},
	{ShortName: "롯데", Name: "Lotte Giants", Channel: "/giantsvod"},
	{ShortName: "NC", Name: "NC Dinos", Channel: "/ncdinosvod"},
	{ShortName: "삼성", Name: "Samsung Lions", Channel: "/lionsvod"},
	{ShortName: "SK", Name: "SK Wyverns", Channel: "/wyvernsvod"},
}

// TeamByShortName maps a title short code to the long team name. Unmapped
// codes resolve to UnknownTeam.
func TeamByShortName(short string) string {
	for _, t := range Teams {
		if t.ShortName == short {
			return t.Name
		}
	}
	return UnknownTeam
}

// TeamByChannel maps a channel path to its team name. The league channel
// maps to LeagueName; any other path resolves to UnknownTeam.
func TeamByChannel(channel string) string {
	if channel == LeagueChannel {
		return LeagueName
	}
	for _, t := range Teams {
		if t.Channel == channel {
			return t.Name
		}
	}
	return UnknownTeam
}

// IsTeamChannel reports whether channel belongs to a specific club.
func IsTeamChannel(channel string) bool {
	for _, t := range Teams {
		if t.Channel == channel {
			return true
		}
	}
	return false
}

// IsKnownChannel reports whether channel is a team channel or the league
// channel.
func IsKnownChannel(channel string) bool {
	return channel == LeagueChannel || IsTeamChannel(channel)
}

// IsTeamName reports whether name is one of the long team names.
func IsTeamName(name string) bool {
	for _, t := range Teams {
		if t.Name == name {
			return true
		}
	}
	return false
}

// SuggestTeam returns the long team name closest to name, or "" when nothing
// is reasonably close.
func SuggestTeam(name string) string {
	metric := metrics.NewLevenshtein()
	metric.CaseSensitive = false

	best, bestScore := "", 0.0
	for _, t := range Teams {
		score := strutil.Similarity(strings.TrimSpace(name), t.Name, metric)
		if score > bestScore {
			best, bestScore = t.Name, score
		}
	}

	if bestScore < 0.5 {
		return ""
	}
	return best
}
