// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session owns the mutable UI state: the selected file set, the
// conversion options, the current result, the last error, and the in-flight
// flag. Every mutation goes through a handler method under one lock, so at
// most one transition happens at a time.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/roshanlimbu/png-to-svg-frontend/internal/selection"
	"github.com/roshanlimbu/png-to-svg-frontend/pkg/types"
)

// Dispatcher issues the conversion request for a validated file set.
// Exactly one of the returned results is non-nil on success.
type Dispatcher interface {
	Dispatch(ctx context.Context, files []selection.File, opts types.Options) (*types.SingleResult, *types.BulkResult, error)
}

// Session is the single-owner state container for one UI session.
type Session struct {
	mu sync.Mutex

	maxTotalBytes int64

	files   []selection.File
	opts    types.Options
	single  *types.SingleResult
	bulk    *types.BulkResult
	errMsg  string
	warning string

	// converting gates the convert trigger: set before dispatch, cleared
	// on every outcome.
	converting bool
}

// New returns a session with default options and an empty file set.
func New(cfg types.SelectionConfig) *Session {
	return &Session{
		maxTotalBytes: cfg.MaxTotalBytes,
		opts:          types.DefaultOptions(),
	}
}

// Snapshot is a point-in-time copy of the session state for rendering.
// Results are read-only once published, so sharing the pointers is safe.
type Snapshot struct {
	Files      []selection.File
	Options    types.Options
	Single     *types.SingleResult
	Bulk       *types.BulkResult
	ErrMsg     string
	Warning    string
	Converting bool
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	files := make([]selection.File, len(s.files))
	copy(files, s.files)
	return Snapshot{
		Files:      files,
		Options:    s.opts,
		Single:     s.single,
		Bulk:       s.bulk,
		ErrMsg:     s.errMsg,
		Warning:    s.warning,
		Converting: s.converting,
	}
}

// Select validates a candidate list and replaces the file set. A failed
// validation resets the set to empty and records the error; a successful one
// clears any previous results, error, and stale warning.
func (s *Session) Select(candidates []selection.File) error {
	res, err := selection.Filter(candidates, s.maxTotalBytes)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.files = nil
		s.warning = ""
		s.errMsg = err.Error()
		return err
	}

	s.files = res.Files
	s.warning = res.Warning
	s.errMsg = ""
	s.single = nil
	s.bulk = nil
	return nil
}

// RemoveFile drops the file at index i. Out-of-range indexes are ignored.
func (s *Session) RemoveFile(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.files) {
		return
	}
	s.files = append(s.files[:i], s.files[i+1:]...)
}

// ClearFiles empties the file set and dismisses any selection messages.
// Existing results stay visible until the next conversion or selection.
func (s *Session) ClearFiles() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = nil
	s.warning = ""
	s.errMsg = ""
}

// SetOptions replaces the conversion options after validating them. Invalid
// options leave the current values in place and record the error.
func (s *Session) SetOptions(opts types.Options) error {
	err := opts.Validate()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.errMsg = err.Error()
		return err
	}
	s.opts = opts
	s.errMsg = ""
	return nil
}

// Options returns the current conversion options.
func (s *Session) Options() types.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// Converting reports whether a request is in flight.
func (s *Session) Converting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.converting
}

// Convert dispatches the selected files through d and publishes the outcome.
// It refuses to start when the set is empty or another conversion is in
// flight. The converting flag is set before dispatch and cleared on success,
// failure response, and transport error alike. On success exactly one of the
// single or bulk results is populated and the other is cleared; on failure
// both are cleared and the error message is recorded, so state is never a
// partially-valid mix.
func (s *Session) Convert(ctx context.Context, d Dispatcher) error {
	s.mu.Lock()
	if s.converting {
		s.mu.Unlock()
		return fmt.Errorf("a conversion is already in progress")
	}
	if len(s.files) == 0 {
		s.errMsg = "no files selected"
		s.mu.Unlock()
		return fmt.Errorf("no files selected")
	}
	s.converting = true
	s.errMsg = ""
	files := make([]selection.File, len(s.files))
	copy(files, s.files)
	opts := s.opts
	s.mu.Unlock()

	single, bulk, err := d.Dispatch(ctx, files, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.converting = false

	if err != nil {
		s.single = nil
		s.bulk = nil
		s.errMsg = err.Error()
		return err
	}

	s.single = single
	s.bulk = bulk
	return nil
}
