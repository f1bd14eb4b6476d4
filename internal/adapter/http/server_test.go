package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/cloud-scene-etl/internal/adapter/http"
)

type fakeRun struct {
	readyErr error
	entries  int
	manifest string
}

func (f *fakeRun) CheckReadiness(context.Context) error { return f.readyErr }
func (f *fakeRun) ManifestEntries() int                 { return f.entries }
func (f *fakeRun) ManifestPath() string                 { return f.manifest }

func get(t *testing.T, srv *httpadapter.Server, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(nethttp.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec, body
}

func TestServer_Healthz(t *testing.T) {
	srv := httpadapter.NewServer(":0", &fakeRun{}, slog.Default())

	rec, body := get(t, srv, "/healthz")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestServer_ReadyzNotReady(t *testing.T) {
	srv := httpadapter.NewServer(":0", &fakeRun{readyErr: errors.New("no run has completed yet")}, slog.Default())

	rec, body := get(t, srv, "/readyz")
	assert.Equal(t, nethttp.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not ready", body["status"])
	assert.Contains(t, body["error"], "no run")
}

func TestServer_ReadyzReady(t *testing.T) {
	srv := httpadapter.NewServer(":0", &fakeRun{}, slog.Default())

	rec, body := get(t, srv, "/readyz")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["status"])
}

func TestServer_Statusz(t *testing.T) {
	srv := httpadapter.NewServer(":0", &fakeRun{
		entries:  7,
		manifest: "/data/scenes/scene_ids.yml",
	}, slog.Default())

	rec, body := get(t, srv, "/statusz")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "/data/scenes/scene_ids.yml", body["manifest_path"])
	assert.Equal(t, float64(7), body["manifest_entries"])
}
