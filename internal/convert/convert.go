// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert dispatches conversion requests to the remote PNG-to-SVG
// backend. A single file goes to the single-item endpoint and the response
// body is raw SVG text; two or more files go to the bulk endpoint as one
// request and the response is a JSON summary with per-file outcomes.
package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/roshanlimbu/png-to-svg-frontend/internal/download"
	"github.com/roshanlimbu/png-to-svg-frontend/internal/httputil"
	"github.com/roshanlimbu/png-to-svg-frontend/internal/selection"
	"github.com/roshanlimbu/png-to-svg-frontend/pkg/types"
)

const (
	singlePath = "/api/convert"
	bulkPath   = "/api/bulk-convert"

	// genericError is surfaced when a failure response carries no
	// structured error message.
	genericError = "conversion failed: the server returned an unexpected response"
)

// Client talks to the converter backend.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
}

// NewClient builds a Client from backend settings. The base URL must carry
// a scheme and host; a trailing slash is tolerated.
func NewClient(cfg types.BackendConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		httpClient: httputil.NewClient(cfg.HTTPConfig),
	}
}

// Dispatch issues exactly one request for the validated file set: the
// single-item endpoint for one file, the bulk endpoint for more. Exactly one
// of the two returned results is non-nil on success.
func (c *Client) Dispatch(ctx context.Context, files []selection.File, opts types.Options) (*types.SingleResult, *types.BulkResult, error) {
	switch {
	case len(files) == 0:
		return nil, nil, fmt.Errorf("no files selected")
	case len(files) == 1:
		single, err := c.Convert(ctx, files[0], opts)
		return single, nil, err
	default:
		bulk, err := c.ConvertBulk(ctx, files, opts)
		return nil, bulk, err
	}
}

// Convert sends one file to the single-item endpoint and returns the SVG
// text with a download name derived from the input name.
func (c *Client) Convert(ctx context.Context, file selection.File, opts types.Options) (*types.SingleResult, error) {
	body, contentType, err := encodeForm(opts, false, func(w *multipart.Writer) error {
		return writeFilePart(w, "image", file)
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.post(ctx, singlePath, contentType, body)
	if err != nil {
		return nil, err
	}
	defer httputil.DrainClose(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s", httputil.ErrorMessage(resp, genericError))
	}

	svg, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return &types.SingleResult{
		SourceName: file.Name,
		SVGName:    download.SVGName(file.Name),
		SVG:        string(svg),
	}, nil
}

// ConvertBulk sends every file in one request to the bulk endpoint and
// returns the parsed summary and per-file outcomes.
func (c *Client) ConvertBulk(ctx context.Context, files []selection.File, opts types.Options) (*types.BulkResult, error) {
	body, contentType, err := encodeForm(opts, true, func(w *multipart.Writer) error {
		for _, f := range files {
			if err := writeFilePart(w, "images", f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.post(ctx, bulkPath, contentType, body)
	if err != nil {
		return nil, err
	}
	defer httputil.DrainClose(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s", httputil.ErrorMessage(resp, genericError))
	}

	var result types.BulkResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding bulk response: %w", err)
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contacting converter backend: %w", err)
	}
	return resp, nil
}

// encodeForm builds a multipart body with the serialized options, the bulk
// marker when requested, and whatever file parts addFiles writes.
func encodeForm(opts types.Options, bulk bool, addFiles func(*multipart.Writer) error) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := addFiles(w); err != nil {
		return nil, "", err
	}

	fields := map[string]string{
		"threshold":  strconv.Itoa(opts.Threshold),
		"turdSize":   strconv.Itoa(opts.TurdSize),
		"optCurve":   strconv.FormatBool(opts.OptCurve),
		"turnPolicy": string(opts.TurnPolicy),
	}
	if opts.Preset != "" {
		fields["preset"] = opts.Preset
	}
	if bulk {
		fields["bulk"] = "true"
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalizing form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, field string, file selection.File) error {
	part, err := w.CreateFormFile(field, file.Name)
	if err != nil {
		return fmt.Errorf("adding %s to form: %w", file.Name, err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("writing %s to form: %w", file.Name, err)
	}
	return nil
}
