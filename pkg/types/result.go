// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SingleResult holds the outcome of a one-file conversion. It is replaced
// on each conversion attempt.
type SingleResult struct {
	// SourceName is the original input filename (e.g. "logo.png").
	SourceName string `json:"source_name" yaml:"source_name"`

	// SVGName is the download filename derived from SourceName (e.g. "logo.svg").
	SVGName string `json:"svg_name" yaml:"svg_name"`

	// SVG is the returned vector-image text.
	SVG string `json:"svg" yaml:"svg"`
}

// BulkSummary holds the aggregate counts returned by the bulk endpoint.
type BulkSummary struct {
	Total      int `json:"total" yaml:"total"`
	Successful int `json:"successful" yaml:"successful"`
	Failed     int `json:"failed" yaml:"failed"`

	// ProcessingTime is the backend-reported elapsed time. It is carried
	// as an opaque string and only ever displayed.
	ProcessingTime string `json:"processing_time" yaml:"processing_time"`
}

// ItemResult is one per-file outcome inside a bulk response: either a
// success carrying the output filename and SVG text, or a failure carrying
// an error message.
type ItemResult struct {
	// Filename is the original input filename.
	Filename string `json:"filename" yaml:"filename"`

	// Success reports whether this file converted.
	Success bool `json:"success" yaml:"success"`

	// SVGFilename is the output filename, set on success.
	SVGFilename string `json:"svgFilename,omitempty" yaml:"svg_filename,omitempty"`

	// SVG is the vector-image text, set on success.
	SVG string `json:"svg,omitempty" yaml:"svg,omitempty"`

	// Error is the reported failure message, set on failure.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// BulkResult holds the outcome of a multi-file conversion. It is replaced
// on each bulk attempt.
type BulkResult struct {
	Summary BulkSummary  `json:"summary" yaml:"summary"`
	Results []ItemResult `json:"results" yaml:"results"`
}

// Successes returns the successful items in response order.
func (r *BulkResult) Successes() []ItemResult {
	var out []ItemResult
	for _, item := range r.Results {
		if item.Success {
			out = append(out, item)
		}
	}
	return out
}
