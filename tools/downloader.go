package tools

import (
	"context"
	"path/filepath"
)

// YoutubeDL downloads clips with youtube-dl or a compatible fork such as
// yt-dlp.
type YoutubeDL struct {
	Path     string
	Progress func(line string) // receives downloader output lines; may be nil

	run runner
}

// NewYoutubeDL returns a downloader for the binary at path, defaulting to
// youtube-dl on PATH.
func NewYoutubeDL(path string, progress func(string)) *YoutubeDL {
	if path == "" {
		path = "youtube-dl"
	}
	return &YoutubeDL{Path: path, Progress: progress, run: execRunner}
}

// Args returns the downloader arguments for one clip.
func (y *YoutubeDL) Args(url, outputPath string) []string {
	return []string{"--newline", "--no-part", "-o", outputPath, url}
}

// Download fetches url into outputPath.
func (y *YoutubeDL) Download(ctx context.Context, url, outputPath string) error {
	var stdout *CallbackWriter
	if y.Progress != nil {
		stdout = NewCallbackWriter(y.Progress)
	}

	output, err := y.run(ctx, y.Path, y.Args(url, outputPath), stdout)
	if err != nil {
		return &ToolError{Tool: filepath.Base(y.Path), Err: err, Output: output}
	}
	return nil
}
