// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selection collects and validates candidate input files. It keeps
// only PNG files, enforces an aggregate size ceiling on the retained set,
// and reports a warning when some candidates had to be dropped.
package selection

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roshanlimbu/png-to-svg-frontend/pkg/types"
)

// pngSignature is the 8-byte magic header every PNG file starts with.
var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// File is one candidate input file held in memory for the session.
type File struct {
	// Name is the base filename as provided by the user (e.g. "logo.png").
	Name string

	// Data is the raw file contents.
	Data []byte
}

// Size returns the file size in bytes.
func (f File) Size() int64 {
	return int64(len(f.Data))
}

// IsPNG reports whether data begins with the PNG signature. Detection is by
// content, not extension, so a renamed JPEG is still rejected.
func IsPNG(data []byte) bool {
	return bytes.HasPrefix(data, pngSignature)
}

// Result holds a validated selection and an optional warning about dropped
// candidates.
type Result struct {
	Files   []File
	Warning string
}

// Filter validates a candidate list. It retains only PNG files; if none
// match it fails with an error and an empty set. If the aggregate size of
// the retained files exceeds maxTotal the entire selection is rejected with
// an error naming the computed size. When some but not all candidates
// matched, the valid subset is accepted and a warning notes how many were
// dropped. A maxTotal of zero or less means the default 20 MiB ceiling.
func Filter(candidates []File, maxTotal int64) (Result, error) {
	if maxTotal <= 0 {
		maxTotal = types.MaxTotalBytes
	}

	var kept []File
	for _, f := range candidates {
		if IsPNG(f.Data) {
			kept = append(kept, f)
		}
	}

	if len(kept) == 0 {
		return Result{}, fmt.Errorf("no valid PNG files selected")
	}

	if total := TotalSize(kept); total > maxTotal {
		return Result{}, fmt.Errorf("total file size (%s) exceeds the %s limit",
			FormatMB(total), FormatMB(maxTotal))
	}

	res := Result{Files: kept}
	if len(kept) < len(candidates) {
		res.Warning = fmt.Sprintf(
			"Selected %d PNG files out of %d total files. Non-PNG files were ignored.",
			len(kept), len(candidates))
	}
	return res, nil
}

// TotalSize returns the aggregate size of files in bytes.
func TotalSize(files []File) int64 {
	var total int64
	for _, f := range files {
		total += f.Size()
	}
	return total
}

// FormatMB renders a byte count as megabytes with two decimals, e.g. "20.00 MB".
func FormatMB(n int64) string {
	return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
}

// LoadFiles reads each path into a File. The stored name is the base name
// of the path.
func LoadFiles(paths []string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		files = append(files, File{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}
