package tools

import (
	"context"
	"fmt"
	"path/filepath"

	orderedmap "github.com/wk8/go-ordered-map"
)

// FFmpeg tags clips and extracts thumbnails with the ffmpeg command line
// tool.
type FFmpeg struct {
	Path           string
	ThumbnailAt    string // timestamp of the thumbnail frame
	ThumbnailWidth int

	run runner
}

// NewFFmpeg returns an FFmpeg for the binary at path, defaulting to ffmpeg on
// PATH.
func NewFFmpeg(path, thumbnailAt string, thumbnailWidth int) *FFmpeg {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpeg{
		Path:           path,
		ThumbnailAt:    thumbnailAt,
		ThumbnailWidth: thumbnailWidth,
		run:            execRunner,
	}
}

// TagArgs returns the arguments that copy every stream of inputPath into
// outputPath with the given metadata.
func (f *FFmpeg) TagArgs(inputPath, outputPath string, tags *orderedmap.OrderedMap) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-i", inputPath, "-map", "0", "-c", "copy"}
	for pair := tags.Oldest(); pair != nil; pair = pair.Next() {
		args = append(args, "-metadata", fmt.Sprintf("%v=%v", pair.Key, pair.Value))
	}
	return append(args, "-y", outputPath)
}

// Tag writes a tagged copy of inputPath to outputPath.
func (f *FFmpeg) Tag(ctx context.Context, inputPath, outputPath string, tags *orderedmap.OrderedMap) error {
	output, err := f.run(ctx, f.Path, f.TagArgs(inputPath, outputPath, tags), nil)
	if err != nil {
		return &ToolError{Tool: filepath.Base(f.Path), Err: err, Output: output}
	}
	return nil
}

// ThumbnailArgs returns the arguments that write one scaled frame of
// inputPath to outputPath.
func (f *FFmpeg) ThumbnailArgs(inputPath, outputPath string) []string {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-ss", f.ThumbnailAt,
		"-i", inputPath,
		"-vf", fmt.Sprintf("scale=%d:-1", f.ThumbnailWidth),
		"-vframes", "1",
		"-y", outputPath,
	}
}

// Thumbnail writes a thumbnail of inputPath to outputPath.
func (f *FFmpeg) Thumbnail(ctx context.Context, inputPath, outputPath string) error {
	output, err := f.run(ctx, f.Path, f.ThumbnailArgs(inputPath, outputPath), nil)
	if err != nil {
		return &ToolError{Tool: filepath.Base(f.Path), Err: err, Output: output}
	}
	return nil
}
