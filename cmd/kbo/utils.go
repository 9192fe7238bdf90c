package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pevans/kboarchive/config"
	"github.com/pevans/kboarchive/logger"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// loadConfig loads the config file and environment, exiting on failure.
func loadConfig() *config.FileConfig {
	path, err := config.ConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// setupLogging enables debug output when asked for.
func setupLogging(verbose bool) {
	if verbose || config.IsTruthy(getEnv("KBO_VERBOSE", "")) {
		logger.SetLevel(logger.DEBUG)
	}
}

// paramFlags binds a string flag to each run parameter. Only flags given on
// the command line override the loaded values.
type paramFlags struct {
	fs     *flag.FlagSet
	values map[string]*string
	fields map[string]*string
}

func newParamFlags(fs *flag.FlagSet, p *config.Params) *paramFlags {
	pf := &paramFlags{fs: fs, values: map[string]*string{}, fields: map[string]*string{}}

	bind := func(name string, field *string, usage string) {
		pf.values[name] = fs.String(name, "", usage)
		pf.fields[name] = field
	}
	bind("clip-type", &p.ClipType, "Clip type to archive: full_game or condensed_game (KBO_CLIP_TYPE)")
	bind("team", &p.TeamName, "Only archive games of this team, e.g. \"SK Wyverns\" (KBO_TEAM_NAME)")
	bind("start", &p.StartDate, "First broadcast date (default: end date minus 2 days) (KBO_START_DATE)")
	bind("end", &p.EndDate, "Last broadcast date (default: today in KST) (KBO_END_DATE)")
	bind("min-length", &p.MinClipLength, "Minimum clip length in seconds (KBO_MIN_CLIP_LENGTH)")
	bind("max-length", &p.MaxClipLength, "Maximum clip length in seconds (KBO_MAX_CLIP_LENGTH)")
	bind("pages", &p.MaxNumPages, "Maximum number of search pages (default: 1) (KBO_MAX_NUM_PAGES)")
	bind("dry-run", &p.DryRun, "Set to 1 or true to validate without downloading (KBO_DRY_RUN)")
	bind("output", &p.OutputDirPath, "Directory for archived clips (KBO_OUTPUT_DIR_PATH)")
	bind("tmp", &p.TmpDirPath, "Directory for in-progress files (KBO_TMP_DIR_PATH)")
	bind("feed", &p.FullGameFeedPath, "Full game feed CSV, required for condensed_game (KBO_FULL_GAME_FEED_PATH)")
	bind("export", &p.FeedExportPath, "Append archived full games to this CSV (KBO_FEED_EXPORT_PATH)")
	bind("allow-league-channel", &p.AllowLeagueChannel, "Set to 1 or true to accept clips from the league channel (KBO_ALLOW_LEAGUE_CHANNEL)")

	return pf
}

// apply copies explicitly set flags into the bound parameters.
func (pf *paramFlags) apply() {
	pf.fs.Visit(func(f *flag.Flag) {
		if field, ok := pf.fields[f.Name]; ok {
			*field = *pf.values[f.Name]
		}
	})
}
