// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package webui serves the single-page converter interface: file selection,
// the options panel, conversion triggering, result rendering, and downloads.
// All state lives in a session container; every POST mutates it through a
// handler and redirects back to the page.
package webui

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/roshanlimbu/png-to-svg-frontend/internal/download"
	"github.com/roshanlimbu/png-to-svg-frontend/internal/history"
	"github.com/roshanlimbu/png-to-svg-frontend/internal/preview"
	"github.com/roshanlimbu/png-to-svg-frontend/internal/selection"
	"github.com/roshanlimbu/png-to-svg-frontend/internal/session"
	"github.com/roshanlimbu/png-to-svg-frontend/pkg/types"
)

//go:embed index.html.tmpl
var templateFS embed.FS

// maxUploadMemory bounds how much of a multipart upload is held in memory
// before spilling to temp files. Uploads themselves are capped by the
// selection ceiling, which is far below this.
const maxUploadMemory = 64 << 20

// Server is the web UI HTTP surface.
type Server struct {
	sess       *session.Session
	dispatcher session.Dispatcher
	store      *history.Store // nil when history is disabled
	tmpl       *template.Template
	mux        *http.ServeMux
}

// New builds a Server over a session and a dispatcher. store may be nil.
func New(sess *session.Session, d session.Dispatcher, store *history.Store) *Server {
	funcs := template.FuncMap{
		"rawSVG": func(s string) template.HTML { return template.HTML(s) },
		"sizeKB": func(n int64) string { return fmt.Sprintf("%.1f KB", float64(n)/1024) },
		"mb":     selection.FormatMB,
	}
	tmpl := template.Must(template.New("index.html.tmpl").Funcs(funcs).ParseFS(templateFS, "index.html.tmpl"))

	s := &Server{
		sess:       sess,
		dispatcher: d,
		store:      store,
		tmpl:       tmpl,
		mux:        http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /upload", s.handleUpload)
	s.mux.HandleFunc("POST /options", s.handleOptions)
	s.mux.HandleFunc("POST /convert", s.handleConvert)
	s.mux.HandleFunc("POST /remove", s.handleRemove)
	s.mux.HandleFunc("POST /clear", s.handleClear)
	s.mux.HandleFunc("GET /download", s.handleDownload)
	s.mux.HandleFunc("GET /download-all", s.handleDownloadAll)
	s.mux.HandleFunc("GET /thumbnail", s.handleThumbnail)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe runs the server on addr until it fails.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// viewData is what the page template renders from.
type viewData struct {
	Snap         session.Snapshot
	Presets      []types.Preset
	TurnPolicies []types.TurnPolicy
	TotalSize    int64
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	snap := s.sess.Snapshot()
	data := viewData{
		Snap:         snap,
		Presets:      types.Presets,
		TurnPolicies: types.TurnPolicies,
		TotalSize:    selection.TotalSize(snap.Files),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		log.Printf("rendering page: %v", err)
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}

	var candidates []selection.File
	for _, header := range r.MultipartForm.File["files"] {
		f, err := header.Open()
		if err != nil {
			http.Error(w, "invalid upload", http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, "invalid upload", http.StatusBadRequest)
			return
		}
		candidates = append(candidates, selection.File{Name: header.Filename, Data: data})
	}

	// Validation failures land in the session error and show on the page.
	s.sess.Select(candidates)
	redirect(w, r)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	opts := s.sess.Options()
	opts.Preset = r.FormValue("preset")
	opts.TurnPolicy = types.TurnPolicy(r.FormValue("turnPolicy"))
	opts.OptCurve = r.FormValue("optCurve") == "on"
	if v, err := strconv.Atoi(r.FormValue("threshold")); err == nil {
		opts.Threshold = v
	}
	if v, err := strconv.Atoi(r.FormValue("turdSize")); err == nil {
		opts.TurdSize = v
	}

	s.sess.SetOptions(opts)
	redirect(w, r)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	before := s.sess.Snapshot()
	opts := before.Options

	start := time.Now()
	err := s.sess.Convert(r.Context(), s.dispatcher)
	elapsed := time.Since(start)

	if s.store != nil && len(before.Files) > 0 {
		entries := historyEntries(before.Files, opts, s.sess.Snapshot(), err, elapsed)
		if recErr := s.store.Record(r.Context(), entries); recErr != nil {
			log.Printf("recording history: %v", recErr)
		}
	}

	redirect(w, r)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	if i, err := strconv.Atoi(r.FormValue("index")); err == nil {
		s.sess.RemoveFile(i)
	}
	redirect(w, r)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.sess.ClearFiles()
	redirect(w, r)
}

// handleDownload serves one SVG as an attachment: the single result, or the
// bulk item selected by the i query parameter.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name, svg, ok := s.resultAt(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write([]byte(svg))
}

func (s *Server) handleDownloadAll(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	if snap.Bulk == nil || len(snap.Bulk.Successes()) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="converted.zip"`)
	if err := download.ZipAll(w, snap.Bulk.Results); err != nil {
		log.Printf("writing archive: %v", err)
	}
}

func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	_, svg, ok := s.resultAt(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	data, err := preview.Thumbnail([]byte(svg), preview.DefaultMaxDim)
	if err != nil {
		http.Error(w, "preview unavailable", http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

// resultAt resolves the i query parameter against the current result: the
// single result ignores the index, a bulk result uses it to pick a
// successful item.
func (s *Server) resultAt(r *http.Request) (name, svg string, ok bool) {
	snap := s.sess.Snapshot()

	if snap.Single != nil {
		return snap.Single.SVGName, snap.Single.SVG, true
	}
	if snap.Bulk == nil {
		return "", "", false
	}

	i, err := strconv.Atoi(r.URL.Query().Get("i"))
	if err != nil || i < 0 || i >= len(snap.Bulk.Results) {
		return "", "", false
	}
	item := snap.Bulk.Results[i]
	if !item.Success {
		return "", "", false
	}
	name = item.SVGFilename
	if name == "" {
		name = download.SVGName(item.Filename)
	}
	return name, item.SVG, true
}

// historyEntries builds history records for one conversion attempt.
func historyEntries(files []selection.File, opts types.Options, after session.Snapshot, err error, elapsed time.Duration) []history.Entry {
	now := time.Now().UTC()

	if len(files) == 1 {
		e := history.Entry{
			Filename:  files[0].Name,
			Mode:      history.ModeSingle,
			Preset:    opts.Preset,
			Success:   err == nil,
			Duration:  elapsed,
			CreatedAt: now,
		}
		if err != nil {
			e.Error = err.Error()
		}
		return []history.Entry{e}
	}

	if err != nil || after.Bulk == nil {
		entries := make([]history.Entry, 0, len(files))
		msg := "bulk conversion failed"
		if err != nil {
			msg = err.Error()
		}
		for _, f := range files {
			entries = append(entries, history.Entry{
				Filename:  f.Name,
				Mode:      history.ModeBulk,
				Preset:    opts.Preset,
				Error:     msg,
				Duration:  elapsed,
				CreatedAt: now,
			})
		}
		return entries
	}

	entries := make([]history.Entry, 0, len(after.Bulk.Results))
	for _, item := range after.Bulk.Results {
		entries = append(entries, history.Entry{
			Filename:  item.Filename,
			Mode:      history.ModeBulk,
			Preset:    opts.Preset,
			Success:   item.Success,
			Error:     item.Error,
			Duration:  elapsed,
			CreatedAt: now,
		})
	}
	return entries
}

func redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
