package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/acarl005/stripansi"
	orderedmap "github.com/wk8/go-ordered-map"
)

var ErrToolNotFound = errors.New("external tool not found")

// ToolError carries the diagnostic output of a failed external tool.
type ToolError struct {
	Tool   string
	Err    error
	Output string
}

func (e *ToolError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("%s failed: %v: %s", e.Tool, e.Err, e.Output)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Downloader fetches a clip URL into a file.
type Downloader interface {
	Download(ctx context.Context, url, outputPath string) error
}

// Tagger writes container metadata from inputPath into a new file at
// outputPath.
type Tagger interface {
	Tag(ctx context.Context, inputPath, outputPath string, tags *orderedmap.OrderedMap) error
}

// Thumbnailer extracts a single frame from a clip as an image.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, inputPath, outputPath string) error
}

// Lookup checks that an executable is on PATH.
func Lookup(path string) error {
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("%w: %s", ErrToolNotFound, path)
	}
	return nil
}

// runner lets tests replace process execution.
type runner func(ctx context.Context, name string, args []string, stdout *CallbackWriter) (stderr string, err error)

func execRunner(ctx context.Context, name string, args []string, stdout *CallbackWriter) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if stdout != nil {
		cmd.Stdout = stdout
		defer stdout.Close()
	}

	err := cmd.Run()
	return strings.TrimSpace(stripansi.Strip(stderr.String())), err
}
