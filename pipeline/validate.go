package pipeline

import (
	"errors"
	"fmt"

	"github.com/pevans/kboarchive/clip"
	"github.com/pevans/kboarchive/config"
)

// Stage names the step that rejected a clip.
type Stage string

const (
	StageType      Stage = "type"
	StageLength    Stage = "length"
	StageChannel   Stage = "channel"
	StageDate      Stage = "date"
	StageTeam      Stage = "team"
	StageThumbnail Stage = "thumbnail"
)

// Rejection drops exactly one clip. It never aborts a run.
type Rejection struct {
	Stage  Stage
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

// IsRejection reports whether err is a per-clip rejection.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

func reject(stage Stage, format string, args ...any) *Rejection {
	return &Rejection{Stage: stage, Reason: fmt.Sprintf(format, args...)}
}

type check func(c clip.Clip, cfg *config.RunConfig) *Rejection

// Order matters: the first failing check decides the rejection.
var checks = []check{
	checkType,
	checkLength,
	checkChannel,
	checkDate,
	checkTeams,
}

// Validate runs the validation stages in order and returns the first
// rejection, or nil when the clip is acceptable.
func Validate(c clip.Clip, cfg *config.RunConfig) *Rejection {
	for _, check := range checks {
		if r := check(c, cfg); r != nil {
			return r
		}
	}
	return nil
}

func checkType(c clip.Clip, cfg *config.RunConfig) *Rejection {
	if c.Type != cfg.ClipType {
		return reject(StageType, "Clip type (%s) does not match %s", c.Type, cfg.ClipType)
	}
	return nil
}

func checkLength(c clip.Clip, cfg *config.RunConfig) *Rejection {
	if cfg.MinClipLength != nil && c.Length < *cfg.MinClipLength {
		return reject(StageLength, "Clip length (%d seconds) shorter than %d seconds", c.Length, *cfg.MinClipLength)
	}
	if cfg.MaxClipLength != nil && c.Length > *cfg.MaxClipLength {
		return reject(StageLength, "Clip length (%d seconds) longer than %d seconds", c.Length, *cfg.MaxClipLength)
	}
	return nil
}

func checkChannel(c clip.Clip, cfg *config.RunConfig) *Rejection {
	if clip.IsTeamChannel(c.Channel) {
		return nil
	}
	if cfg.AllowLeagueChannel && c.Channel == clip.LeagueChannel {
		return nil
	}
	return reject(StageChannel, "Clip channel (%s) is not a KBO League team channel", c.Channel)
}

func checkDate(c clip.Clip, cfg *config.RunConfig) *Rejection {
	if c.Date == nil {
		return reject(StageDate, "Clip date unknown")
	}
	if !cfg.InRange(*c.Date) {
		return reject(StageDate, "Clip date (%s) not within target date range (%s - %s)",
			c.Date, clip.NewDate(cfg.StartDate), clip.NewDate(cfg.EndDate))
	}
	return nil
}

func checkTeams(c clip.Clip, cfg *config.RunConfig) *Rejection {
	if c.HomeTeam == clip.UnknownTeam || c.HomeTeam == "" {
		return reject(StageTeam, "Home team name unknown")
	}
	if c.AwayTeam == clip.UnknownTeam || c.AwayTeam == "" {
		return reject(StageTeam, "Away team name unknown")
	}
	if cfg.TeamName != "" && cfg.TeamName != c.HomeTeam && cfg.TeamName != c.AwayTeam {
		return reject(StageTeam, "Target team name %s does not match clip team names (home: %s, away: %s)",
			cfg.TeamName, c.HomeTeam, c.AwayTeam)
	}
	return nil
}
