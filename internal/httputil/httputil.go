// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the conversion client.
package httputil

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/roshanlimbu/png-to-svg-frontend/pkg/types"
)

// maxErrorBody caps how much of a failure response body is read when looking
// for a structured error message.
const maxErrorBody = 64 * 1024

// NewClient builds an http.Client from shared HTTP settings. A zero timeout
// means the request is awaited to completion; the caller's context is the
// only way to give up early.
func NewClient(cfg types.HTTPConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

// errorBody is the JSON shape a failing converter response may carry.
type errorBody struct {
	Error string `json:"error"`
}

// ErrorMessage extracts the server-supplied error string from a non-2xx
// response body. The body is consumed. When the body is not JSON or carries
// no error field, fallback is returned instead.
func ErrorMessage(resp *http.Response, fallback string) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return fallback
	}
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		return fallback
	}
	return body.Error
}

// DrainClose discards any unread body and closes it so the underlying
// connection can be reused.
func DrainClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
