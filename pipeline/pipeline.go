package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pevans/kboarchive/clip"
	"github.com/pevans/kboarchive/config"
	"github.com/pevans/kboarchive/fsx"
	"github.com/pevans/kboarchive/gamefeed"
	"github.com/pevans/kboarchive/logger"
	"github.com/pevans/kboarchive/naming"
	"github.com/pevans/kboarchive/tools"
)

// Result records what happened to one accepted clip.
type Result struct {
	Names          naming.Names
	Downloaded     bool
	Tagged         bool
	Thumbnailed    bool
	MovedClip      bool
	MovedThumbnail bool
	Exported       bool
}

// Pipeline validates clips and produces their archived files. Every side
// effect is guarded by an existence check, so a rerun after a crash resumes
// where the previous run stopped.
type Pipeline struct {
	cfg         *config.RunConfig
	downloader  tools.Downloader
	tagger      tools.Tagger
	thumbnailer tools.Thumbnailer
	export      *gamefeed.Writer
	log         *logger.Logger
}

// New creates a pipeline. The feed export is enabled when the run config
// names an export path.
func New(cfg *config.RunConfig, downloader tools.Downloader, tagger tools.Tagger, thumbnailer tools.Thumbnailer) *Pipeline {
	p := &Pipeline{
		cfg:         cfg,
		downloader:  downloader,
		tagger:      tagger,
		thumbnailer: thumbnailer,
		log:         logger.Get("pipeline"),
	}
	if cfg.FeedExportPath != "" {
		p.export = gamefeed.NewWriter(cfg.FeedExportPath)
	}
	return p
}

// Process validates c and, unless this is a dry run, downloads, tags,
// thumbnails and moves it. A *Rejection is returned for clips that are
// dropped; any other error means a stage failed for this clip.
func (p *Pipeline) Process(ctx context.Context, c clip.Clip) (*Result, error) {
	if r := Validate(c, p.cfg); r != nil {
		return nil, r
	}

	names, err := naming.For(c, p.cfg.TmpDirPath, p.cfg.OutputDirPath)
	if err != nil {
		return nil, err
	}
	result := &Result{Names: names}

	if p.cfg.DryRun {
		return result, nil
	}

	if result.Downloaded, err = p.download(ctx, c, names); err != nil {
		return result, fmt.Errorf("failed to download clip %s: %w", c.ID, err)
	}
	if result.Tagged, err = p.tag(ctx, names); err != nil {
		return result, fmt.Errorf("failed to tag clip %s: %w", c.ID, err)
	}
	if result.Thumbnailed, err = p.thumbnail(ctx, names); err != nil {
		var toolErr *tools.ToolError
		if errors.As(err, &toolErr) {
			return result, reject(StageThumbnail, "Could not create thumbnail: %s", toolErr.Output)
		}
		return result, fmt.Errorf("failed to create thumbnail for clip %s: %w", c.ID, err)
	}
	if result.MovedClip, result.MovedThumbnail, err = p.move(names); err != nil {
		return result, fmt.Errorf("failed to move clip %s: %w", c.ID, err)
	}

	if p.export != nil && c.Type == clip.FullGame {
		n, err := p.export.Append(c)
		if err != nil {
			return result, err
		}
		result.Exported = n > 0
	}

	return result, nil
}

func (p *Pipeline) download(ctx context.Context, c clip.Clip, names naming.Names) (bool, error) {
	if fsx.Exists(names.TmpPath) || fsx.Exists(names.OutputPath) {
		p.log.Debugf("%s already downloaded", names.FileName)
		return false, nil
	}

	staging, err := fsx.StagingPath(p.cfg.TmpDirPath, names.FileName)
	if err != nil {
		return false, err
	}

	p.log.Infof("Downloading %s to %s", c.URL, names.TmpPath)
	if err := p.downloader.Download(ctx, c.URL, staging); err != nil {
		return false, err
	}
	if !fsx.Exists(staging) {
		return false, fmt.Errorf("downloader produced no file at %s", staging)
	}

	return true, fsx.Move(staging, names.TmpPath)
}

func (p *Pipeline) tag(ctx context.Context, names naming.Names) (bool, error) {
	if !fsx.Exists(names.TmpPath) {
		return false, nil
	}

	staging, err := fsx.StagingPath(p.cfg.TmpDirPath, names.FileName)
	if err != nil {
		return false, err
	}

	p.log.Debugf("Tagging %s", names.TmpPath)
	if err := p.tagger.Tag(ctx, names.TmpPath, staging, names.Tags()); err != nil {
		return false, err
	}

	return true, fsx.Move(staging, names.TmpPath)
}

func (p *Pipeline) thumbnail(ctx context.Context, names naming.Names) (bool, error) {
	if !fsx.Exists(names.TmpPath) {
		return false, nil
	}
	if fsx.Exists(names.TmpThumbnail) || fsx.Exists(names.OutThumbnail) {
		return false, nil
	}

	staging, err := fsx.StagingPath(p.cfg.TmpDirPath, names.ThumbnailName)
	if err != nil {
		return false, err
	}

	p.log.Debugf("Creating thumbnail %s", names.TmpThumbnail)
	if err := p.thumbnailer.Thumbnail(ctx, names.TmpPath, staging); err != nil {
		return false, err
	}

	return true, fsx.Move(staging, names.TmpThumbnail)
}

// move relocates the clip and its thumbnail separately. Each is skipped when
// its source is missing or its destination exists.
func (p *Pipeline) move(names naming.Names) (movedClip, movedThumbnail bool, err error) {
	if filepath.Clean(p.cfg.TmpDirPath) == filepath.Clean(p.cfg.OutputDirPath) {
		return false, false, nil
	}

	if movedClip, err = moveIfNeeded(names.TmpPath, names.OutputPath); err != nil {
		return movedClip, false, err
	}
	if movedThumbnail, err = moveIfNeeded(names.TmpThumbnail, names.OutThumbnail); err != nil {
		return movedClip, movedThumbnail, err
	}

	if movedClip {
		p.log.Infof("Archived %s", names.OutputPath)
	}
	return movedClip, movedThumbnail, nil
}

func moveIfNeeded(src, dst string) (bool, error) {
	if !fsx.Exists(src) || fsx.Exists(dst) {
		return false, nil
	}
	if err := fsx.Move(src, dst); err != nil {
		return false, err
	}
	return true, nil
}
