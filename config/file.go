package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mitchellh/go-homedir"
	"github.com/pevans/kboarchive/scraper"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when KBO_CONFIG is not set.
const DefaultConfigPath = "~/.kbo/config.yaml"

// Params holds the caller-supplied run parameters as text, the way they
// arrive from the config file, the environment, or flags. NewRunConfig turns
// them into a RunConfig.
type Params struct {
	ClipType           string `yaml:"clip_type" env:"KBO_CLIP_TYPE"`
	TeamName           string `yaml:"team_name" env:"KBO_TEAM_NAME"`
	StartDate          string `yaml:"start_date" env:"KBO_START_DATE"`
	EndDate            string `yaml:"end_date" env:"KBO_END_DATE"`
	MinClipLength      string `yaml:"min_clip_length" env:"KBO_MIN_CLIP_LENGTH"`
	MaxClipLength      string `yaml:"max_clip_length" env:"KBO_MAX_CLIP_LENGTH"`
	MaxNumPages        string `yaml:"max_num_pages" env:"KBO_MAX_NUM_PAGES"`
	DryRun             string `yaml:"dry_run" env:"KBO_DRY_RUN"`
	OutputDirPath      string `yaml:"output_dir_path" env:"KBO_OUTPUT_DIR_PATH"`
	TmpDirPath         string `yaml:"tmp_dir_path" env:"KBO_TMP_DIR_PATH"`
	FullGameFeedPath   string `yaml:"full_game_feed_path" env:"KBO_FULL_GAME_FEED_PATH"`
	FeedExportPath     string `yaml:"feed_export_path" env:"KBO_FEED_EXPORT_PATH"`
	AllowLeagueChannel string `yaml:"allow_league_channel" env:"KBO_ALLOW_LEAGUE_CHANNEL"`
}

// ToolsConfig names the external programs.
type ToolsConfig struct {
	Downloader string `yaml:"downloader" env:"KBO_DOWNLOADER" env-default:"youtube-dl"`
	FFmpeg     string `yaml:"ffmpeg" env:"KBO_FFMPEG" env-default:"ffmpeg"`
}

// HTTPConfig controls page fetching.
type HTTPConfig struct {
	UserAgent string        `yaml:"user_agent" env:"KBO_USER_AGENT" env-default:"kboarchive/1.0 (KBO League clip archiver)"`
	Timeout   time.Duration `yaml:"timeout" env:"KBO_HTTP_TIMEOUT" env-default:"10s" validate:"gt=0"`
}

// HistoryConfig locates the run history database.
type HistoryConfig struct {
	Path string `yaml:"path" env:"KBO_HISTORY_PATH" env-default:"~/.kbo/history.db"`
}

// FileConfig represents the structure of ~/.kbo/config.yaml.
type FileConfig struct {
	Crawl     Params            `yaml:"crawl"`
	Tools     ToolsConfig       `yaml:"tools"`
	HTTP      HTTPConfig        `yaml:"http"`
	History   HistoryConfig     `yaml:"history"`
	Selectors scraper.Selectors `yaml:"selectors"`
}

// ConfigPath returns the config file location, honouring KBO_CONFIG.
func ConfigPath() (string, error) {
	path := os.Getenv("KBO_CONFIG")
	if path == "" {
		path = DefaultConfigPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand config path: %w", err)
	}
	return expanded, nil
}

// LoadConfigFile loads configuration from path. Returns nil if the file
// doesn't exist (not an error). Returns error if the file exists but cannot
// be parsed.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Load builds the configuration with precedence environment variables over
// the config file at path over defaults. Paths have ~ expanded.
func Load(path string) (*FileConfig, error) {
	cfg, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &FileConfig{}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if cfg.History.Path, err = homedir.Expand(cfg.History.Path); err != nil {
		return nil, fmt.Errorf("failed to expand history path: %w", err)
	}
	cfg.Selectors = cfg.Selectors.Merge()

	if err := validate.Struct(cfg.HTTP); err != nil {
		return nil, fieldError(err)
	}

	return cfg, nil
}
