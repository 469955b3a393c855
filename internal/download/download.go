// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download turns returned vector-image text into saved files. Single
// results are written directly; bulk successes are written as a sequential
// queue with a fixed inter-item delay, and can alternatively be bundled into
// a single zip stream for the web UI.
package download

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/roshanlimbu/png-to-svg-frontend/pkg/types"
)

// SVGName derives the output filename from an input name by replacing its
// extension with .svg: "logo.png" becomes "logo.svg".
func SVGName(inputName string) string {
	base := strings.TrimSuffix(inputName, filepath.Ext(inputName))
	if base == "" {
		base = inputName
	}
	return base + ".svg"
}

// itemName picks the output filename for a bulk item: the server-provided
// name when present, otherwise derived from the input name.
func itemName(item types.ItemResult) string {
	if item.SVGFilename != "" {
		return item.SVGFilename
	}
	return SVGName(item.Filename)
}

// Save writes one SVG to dir/name, creating dir if needed, and returns the
// written path.
func Save(dir, name, svg string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// BatchResult holds the outcome of a batch save run.
type BatchResult struct {
	Saved  int
	Failed int
}

// Total returns the number of items processed.
func (r BatchResult) Total() int {
	return r.Saved + r.Failed
}

// SaveAll writes every successful item from a bulk result to dir, one at a
// time with a fixed delay between consecutive saves. Items that failed
// conversion are reported and counted but never abort the rest of the batch.
// Cancelling ctx between items stops the queue; the summary then covers only
// what was written. A stagger of zero or less means the 200ms default.
func SaveAll(ctx context.Context, dir string, items []types.ItemResult, stagger time.Duration, w io.Writer) (BatchResult, error) {
	if stagger <= 0 {
		stagger = types.DefaultStagger
	}

	var result BatchResult
	first := true
	for _, item := range items {
		if !item.Success {
			fmt.Fprintf(w, "failed:  %s (%s)\n", item.Filename, item.Error)
			result.Failed++
			continue
		}

		if !first {
			select {
			case <-ctx.Done():
				fmt.Fprintf(w, "\ncancelled after %d of %d files\n", result.Saved, len(items))
				return result, ctx.Err()
			case <-time.After(stagger):
			}
		}
		first = false

		path, err := Save(dir, itemName(item), item.SVG)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", item.Filename, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "saved:   %s\n", path)
		result.Saved++
	}

	fmt.Fprintf(w, "\nBatch summary: %d saved, %d failed (total: %d)\n",
		result.Saved, result.Failed, result.Total())
	return result, nil
}

// ZipAll streams every successful item into a zip archive written to w.
func ZipAll(w io.Writer, items []types.ItemResult) error {
	zw := zip.NewWriter(w)
	for _, item := range items {
		if !item.Success {
			continue
		}
		f, err := zw.Create(itemName(item))
		if err != nil {
			return fmt.Errorf("adding %s to archive: %w", item.Filename, err)
		}
		if _, err := f.Write([]byte(item.SVG)); err != nil {
			return fmt.Errorf("writing %s to archive: %w", item.Filename, err)
		}
	}
	return zw.Close()
}
