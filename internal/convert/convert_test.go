// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshanlimbu/png-to-svg-frontend/internal/selection"
	"github.com/roshanlimbu/png-to-svg-frontend/pkg/types"
)

const sampleSVG = `<svg xmlns="http://www.w3.org/2000/svg"><path d="M0 0"/></svg>`

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func pngFile(name string) selection.File {
	data := append([]byte{}, pngHeader...)
	return selection.File{Name: name, Data: append(data, 1, 2, 3)}
}

func newTestClient(ts *httptest.Server) *Client {
	return NewClient(types.BackendConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "png2svg-test"},
		URL:        ts.URL,
	})
}

// --- single endpoint ---

func TestConvert_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/convert", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		require.NoError(t, r.ParseMultipartForm(32<<20))

		f, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "logo.png", header.Filename)

		assert.Equal(t, "128", r.FormValue("threshold"))
		assert.Equal(t, "2", r.FormValue("turdSize"))
		assert.Equal(t, "true", r.FormValue("optCurve"))
		assert.Equal(t, "minority", r.FormValue("turnPolicy"))
		assert.Empty(t, r.FormValue("bulk"))
		assert.Empty(t, r.FormValue("preset"))

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte(sampleSVG))
	}))
	defer ts.Close()

	result, err := newTestClient(ts).Convert(context.Background(), pngFile("logo.png"), types.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "logo.png", result.SourceName)
	assert.Equal(t, "logo.svg", result.SVGName)
	assert.Equal(t, sampleSVG, result.SVG)
}

func TestConvert_SendsPreset(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		assert.Equal(t, "logo", r.FormValue("preset"))
		w.Write([]byte(sampleSVG))
	}))
	defer ts.Close()

	opts := types.DefaultOptions()
	opts.Preset = "logo"
	_, err := newTestClient(ts).Convert(context.Background(), pngFile("a.png"), opts)
	require.NoError(t, err)
}

func TestConvert_StructuredError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "image is corrupt"})
	}))
	defer ts.Close()

	_, err := newTestClient(ts).Convert(context.Background(), pngFile("a.png"), types.DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, "image is corrupt", err.Error())
}

func TestConvert_GenericError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).Convert(context.Background(), pngFile("a.png"), types.DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected response")
}

func TestConvert_ErrorBodyDrainedForReuse(t *testing.T) {
	// Failure body larger than the error-message read cap; the remainder
	// must still be drained or the connection cannot be reused.
	big := bytes.Repeat([]byte("x"), 128*1024)

	var conns int32
	ts := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(big)
	}))
	ts.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateNew {
			atomic.AddInt32(&conns, 1)
		}
	}
	ts.Start()
	defer ts.Close()

	client := newTestClient(ts)
	for i := 0; i < 2; i++ {
		_, err := client.Convert(context.Background(), pngFile("a.png"), types.DefaultOptions())
		require.Error(t, err)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&conns))
}

func TestConvert_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close() // backend gone

	_, err := newTestClient(ts).Convert(context.Background(), pngFile("a.png"), types.DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contacting converter backend")
}

// --- bulk endpoint ---

func bulkResponse() types.BulkResult {
	return types.BulkResult{
		Summary: types.BulkSummary{Total: 3, Successful: 2, Failed: 1, ProcessingTime: "412ms"},
		Results: []types.ItemResult{
			{Filename: "a.png", Success: true, SVGFilename: "a.svg", SVG: sampleSVG},
			{Filename: "b.png", Success: false, Error: "trace failed"},
			{Filename: "c.png", Success: true, SVGFilename: "c.svg", SVG: sampleSVG},
		},
	}
}

func TestConvertBulk_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bulk-convert", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(32<<20))
		assert.Len(t, r.MultipartForm.File["images"], 3)
		assert.Equal(t, "true", r.FormValue("bulk"))
		assert.Equal(t, "128", r.FormValue("threshold"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(bulkResponse())
	}))
	defer ts.Close()

	files := []selection.File{pngFile("a.png"), pngFile("b.png"), pngFile("c.png")}
	result, err := newTestClient(ts).ConvertBulk(context.Background(), files, types.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Summary.Total)
	assert.Equal(t, 1, result.Summary.Failed)
	assert.Equal(t, "412ms", result.Summary.ProcessingTime)
	require.Len(t, result.Results, 3)
	assert.False(t, result.Results[1].Success)
	assert.Equal(t, "trace failed", result.Results[1].Error)
	assert.Len(t, result.Successes(), 2)
}

func TestConvertBulk_BadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	files := []selection.File{pngFile("a.png"), pngFile("b.png")}
	_, err := newTestClient(ts).ConvertBulk(context.Background(), files, types.DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding bulk response")
}

// --- dispatch routing ---

func TestDispatch_RoutesByCount(t *testing.T) {
	var singleCalls, bulkCalls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/convert":
			atomic.AddInt32(&singleCalls, 1)
			w.Write([]byte(sampleSVG))
		case "/api/bulk-convert":
			atomic.AddInt32(&bulkCalls, 1)
			json.NewEncoder(w).Encode(bulkResponse())
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	client := newTestClient(ts)

	single, bulk, err := client.Dispatch(context.Background(), []selection.File{pngFile("a.png")}, types.DefaultOptions())
	require.NoError(t, err)
	assert.NotNil(t, single)
	assert.Nil(t, bulk)

	files := []selection.File{pngFile("a.png"), pngFile("b.png"), pngFile("c.png")}
	single, bulk, err = client.Dispatch(context.Background(), files, types.DefaultOptions())
	require.NoError(t, err)
	assert.Nil(t, single)
	assert.NotNil(t, bulk)

	assert.Equal(t, int32(1), atomic.LoadInt32(&singleCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&bulkCalls))
}

func TestDispatch_Empty(t *testing.T) {
	client := NewClient(types.BackendConfig{URL: "http://localhost:0"})
	_, _, err := client.Dispatch(context.Background(), nil, types.DefaultOptions())
	require.Error(t, err)
}

func TestClient_SendsAuthorization(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sekrit", r.Header.Get("Authorization"))
		assert.Equal(t, "png2svg-test", r.Header.Get("User-Agent"))
		w.Write([]byte(sampleSVG))
	}))
	defer ts.Close()

	client := NewClient(types.BackendConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "png2svg-test"},
		URL:        ts.URL,
		APIKey:     "sekrit",
	})
	_, err := client.Convert(context.Background(), pngFile("a.png"), types.DefaultOptions())
	require.NoError(t, err)
}
