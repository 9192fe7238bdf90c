package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"github.com/pevans/kboarchive/clip"
	"github.com/pevans/kboarchive/fsx"
	"github.com/pevans/kboarchive/scraper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

var validate = validator.New()

// Error describes one invalid run parameter.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *Error) Unwrap() error { return ErrInvalidConfig }

// RunConfig is the validated, immutable configuration of one crawl run.
type RunConfig struct {
	ClipType           clip.Type
	TeamName           string // empty means any team
	StartDate          time.Time
	EndDate            time.Time
	MinClipLength      *int `validate:"omitempty,gte=0"`
	MaxClipLength      *int `validate:"omitempty,gte=0"`
	MaxNumPages        int  `validate:"gte=1"`
	DryRun             bool
	OutputDirPath      string
	TmpDirPath         string
	FullGameFeedPath   string
	FeedExportPath     string
	AllowLeagueChannel bool
}

// NewRunConfig parses and validates run parameters. now is used for the
// default date window and for relative dates.
func NewRunConfig(p Params, now time.Time) (*RunConfig, error) {
	cfg := &RunConfig{}
	var err error

	if cfg.ClipType, err = clip.ParseType(p.ClipType); err != nil {
		return nil, &Error{Field: "clip_type", Reason: fmt.Sprintf("%q is not one of full_game, condensed_game", p.ClipType)}
	}

	if p.TeamName != "" {
		if !clip.IsTeamName(p.TeamName) {
			reason := fmt.Sprintf("%q is not a KBO League team", p.TeamName)
			if suggestion := clip.SuggestTeam(p.TeamName); suggestion != "" {
				reason += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			return nil, &Error{Field: "team_name", Reason: reason}
		}
		cfg.TeamName = p.TeamName
	}

	if cfg.EndDate, err = parseDate("end_date", p.EndDate, now, clip.NewDate(now).Time()); err != nil {
		return nil, err
	}
	if cfg.StartDate, err = parseDate("start_date", p.StartDate, now, cfg.EndDate.AddDate(0, 0, -2)); err != nil {
		return nil, err
	}
	if cfg.StartDate.After(cfg.EndDate) {
		return nil, &Error{Field: "start_date", Reason: fmt.Sprintf("%s is after end_date %s",
			clip.NewDate(cfg.StartDate), clip.NewDate(cfg.EndDate))}
	}

	if cfg.MinClipLength, err = parseLength("min_clip_length", p.MinClipLength); err != nil {
		return nil, err
	}
	if cfg.MinClipLength == nil && cfg.ClipType == clip.FullGame {
		cfg.MinClipLength = intPtr(3600)
	}
	if cfg.MaxClipLength, err = parseLength("max_clip_length", p.MaxClipLength); err != nil {
		return nil, err
	}
	if cfg.MaxClipLength == nil && cfg.ClipType == clip.CondensedGame {
		cfg.MaxClipLength = intPtr(3600)
	}

	cfg.MaxNumPages = 1
	if p.MaxNumPages != "" {
		if cfg.MaxNumPages, err = strconv.Atoi(strings.TrimSpace(p.MaxNumPages)); err != nil {
			return nil, &Error{Field: "max_num_pages", Reason: fmt.Sprintf("%q is not an integer", p.MaxNumPages)}
		}
	}

	cfg.DryRun = IsTruthy(p.DryRun)
	cfg.AllowLeagueChannel = IsTruthy(p.AllowLeagueChannel)

	if err := validate.Struct(cfg); err != nil {
		return nil, fieldError(err)
	}

	// Directories only matter when files will be written
	if cfg.OutputDirPath, err = requireDir("output_dir_path", p.OutputDirPath, !cfg.DryRun); err != nil {
		return nil, err
	}
	if cfg.TmpDirPath, err = requireDir("tmp_dir_path", p.TmpDirPath, !cfg.DryRun); err != nil {
		return nil, err
	}

	if cfg.FullGameFeedPath, err = expand("full_game_feed_path", p.FullGameFeedPath); err != nil {
		return nil, err
	}
	if cfg.ClipType == clip.CondensedGame {
		if cfg.FullGameFeedPath == "" || !fsx.Exists(cfg.FullGameFeedPath) {
			return nil, &Error{Field: "full_game_feed_path", Reason: "does not exist"}
		}
	}

	if cfg.FeedExportPath, err = expand("feed_export_path", p.FeedExportPath); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsTruthy reports whether a boolean-like parameter is set. Only "1" and
// "true" in any case count.
func IsTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return true
	}
	return false
}

// InRange reports whether d falls within the run's inclusive date window.
func (c *RunConfig) InRange(d clip.Date) bool {
	t := d.Time()
	return !t.Before(c.StartDate) && !t.After(c.EndDate)
}

func parseDate(field, text string, now, def time.Time) (time.Time, error) {
	if strings.TrimSpace(text) == "" {
		return def, nil
	}
	d, err := scraper.ParseDate(text, now)
	if err != nil {
		return time.Time{}, &Error{Field: field, Reason: err.Error()}
	}
	return d.Time(), nil
}

func parseLength(field, text string) (*int, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil, &Error{Field: field, Reason: fmt.Sprintf("%q is not a number of seconds", text)}
	}
	return &n, nil
}

func requireDir(field, path string, required bool) (string, error) {
	path, err := expand(field, path)
	if err != nil {
		return "", err
	}
	if required && (path == "" || !fsx.IsDir(path)) {
		return "", &Error{Field: field, Reason: "does not exist"}
	}
	return path, nil
}

func expand(field, path string) (string, error) {
	expanded, err := homedir.Expand(strings.TrimSpace(path))
	if err != nil {
		return "", &Error{Field: field, Reason: err.Error()}
	}
	return expanded, nil
}

// fieldError converts the first validator failure into an Error.
func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &Error{
			Field:  toSnake(fe.Field()),
			Reason: fmt.Sprintf("%v fails %s %s", fe.Value(), fe.Tag(), fe.Param()),
		}
	}
	return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
}

func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func intPtr(n int) *int {
	return &n
}
