package pipeline

import (
	"testing"
	"time"

	"github.com/pevans/kboarchive/clip"
	"github.com/pevans/kboarchive/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

// Test helper: the full game clip SK at NC on 2020-05-16
func fullGameClip() clip.Clip {
	return clip.Clip{
		Candidate: clip.Candidate{
			ID:       "13385497",
			Type:     clip.FullGame,
			Title:    "SK-NC 풀영상",
			URL:      "https://tv.naver.com/v/13385497",
			Length:   15813,
			Channel:  "/wyvernsvod",
			HomeTeam: "NC Dinos",
			AwayTeam: "SK Wyverns",
		},
		Date: &clip.Date{Year: 2020, Month: 5, Day: 16},
	}
}

// Test helper: a dry full game run for 2020-05-16 only
func dryRunConfig() *config.RunConfig {
	day := time.Date(2020, 5, 16, 0, 0, 0, 0, clip.KST)
	return &config.RunConfig{
		ClipType:      clip.FullGame,
		StartDate:     day,
		EndDate:       day,
		MinClipLength: intPtr(3600),
		MaxNumPages:   1,
		DryRun:        true,
	}
}

// TestValidate_Accepts verifies the reference clip passes every stage
func TestValidate_Accepts(t *testing.T) {
	assert.Nil(t, Validate(fullGameClip(), dryRunConfig()))
}

// TestValidate_Rejections verifies each stage and its reason
func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *clip.Clip, cfg *config.RunConfig)
		stage  Stage
		reason string
	}{
		{
			name:   "type mismatch",
			mutate: func(c *clip.Clip, cfg *config.RunConfig) { c.Type = clip.CondensedGame },
			stage:  StageType,
			reason: "Clip type (condensed_game) does not match full_game",
		},
		{
			name:   "type mismatch wins over length",
			mutate: func(c *clip.Clip, cfg *config.RunConfig) { c.Type = clip.Unknown; c.Length = 10 },
			stage:  StageType,
			reason: "Clip type (unknown) does not match full_game",
		},
		{
			name:   "too short",
			mutate: func(c *clip.Clip, cfg *config.RunConfig) { cfg.MinClipLength = intPtr(16000) },
			stage:  StageLength,
			reason: "Clip length (15813 seconds) shorter than 16000 seconds",
		},
		{
			name:   "too long",
			mutate: func(c *clip.Clip, cfg *config.RunConfig) { cfg.MaxClipLength = intPtr(3600) },
			stage:  StageLength,
			reason: "Clip length (15813 seconds) longer than 3600 seconds",
		},
		{
			name:   "unknown channel",
			mutate: func(c *clip.Clip, cfg *config.RunConfig) { c.Channel = "/someone" },
			stage:  StageChannel,
			reason: "Clip channel (/someone) is not a KBO League team channel",
		},
		{
			name:   "league channel",
			mutate: func(c *clip.Clip, cfg *config.RunConfig) { c.Channel = clip.LeagueChannel },
			stage:  StageChannel,
			reason: "Clip channel (/kbaseball) is not a KBO League team channel",
		},
		{
			name:   "no date",
			mutate: func(c *clip.Clip, cfg *config.RunConfig) { c.Date = nil },
			stage:  StageDate,
			reason: "Clip date unknown",
		},
		{
			name: "out of range",
			mutate: func(c *clip.Clip, cfg *config.RunConfig) {
				c.Date = &clip.Date{Year: 2020, Month: 5, Day: 17}
			},
			stage:  StageDate,
			reason: "Clip date (2020-05-17) not within target date range (2020-05-16 - 2020-05-16)",
		},
		{
			name:   "unknown home",
			mutate: func(c *clip.Clip, cfg *config.RunConfig) { c.HomeTeam = clip.UnknownTeam },
			stage:  StageTeam,
			reason: "Home team name unknown",
		},
		{
			name:   "unknown away",
			mutate: func(c *clip.Clip, cfg *config.RunConfig) { c.AwayTeam = clip.UnknownTeam },
			stage:  StageTeam,
			reason: "Away team name unknown",
		},
		{
			name:   "team filter",
			mutate: func(c *clip.Clip, cfg *config.RunConfig) { cfg.TeamName = "LG Twins" },
			stage:  StageTeam,
			reason: "Target team name LG Twins does not match clip team names (home: NC Dinos, away: SK Wyverns)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, cfg := fullGameClip(), dryRunConfig()
			tt.mutate(&c, cfg)

			r := Validate(c, cfg)
			require.NotNil(t, r)
			assert.Equal(t, tt.stage, r.Stage)
			assert.Equal(t, tt.reason, r.Reason)
			assert.True(t, IsRejection(r))
		})
	}
}

// TestValidate_NoDateAlwaysRejected verifies a missing date is rejected at
// the date stage even when teams are also unknown
func TestValidate_NoDateAlwaysRejected(t *testing.T) {
	c := fullGameClip()
	c.Date = nil
	c.HomeTeam, c.AwayTeam = clip.UnknownTeam, clip.UnknownTeam

	r := Validate(c, dryRunConfig())
	require.NotNil(t, r)
	assert.Equal(t, StageDate, r.Stage)
}

// TestValidate_Passing verifies optional checks that let clips through
func TestValidate_Passing(t *testing.T) {
	t.Run("team filter matches away team", func(t *testing.T) {
		cfg := dryRunConfig()
		cfg.TeamName = "SK Wyverns"
		assert.Nil(t, Validate(fullGameClip(), cfg))
	})

	t.Run("league channel allowed", func(t *testing.T) {
		cfg := dryRunConfig()
		cfg.AllowLeagueChannel = true
		c := fullGameClip()
		c.Channel = clip.LeagueChannel
		assert.Nil(t, Validate(c, cfg))
	})

	t.Run("no length bounds", func(t *testing.T) {
		cfg := dryRunConfig()
		cfg.MinClipLength = nil
		c := fullGameClip()
		c.Length = 0
		assert.Nil(t, Validate(c, cfg))
	})
}
