package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"smeta/internal/estimate"
)

type WriteOptions struct {
	Render    RenderOptions
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteReport renders the estimate and writes it to path.
func WriteReport(t *estimate.Tree, path string, opt WriteOptions) (WriteResult, error) {
	if t == nil {
		return WriteResult{}, errors.New("no estimate loaded")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return WriteResult{}, errors.New("missing --out")
	}
	path = filepath.Clean(path)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return WriteResult{}, err
		}
	}
	if err := WriteFile(path, []byte(RenderMarkdown(t, opt.Render)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{path}}, nil
}

// WriteFile refuses to replace an existing file unless overwrite is set.
func WriteFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
