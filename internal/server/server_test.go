package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lectio/internal/pipeline"
	"lectio/internal/reference"
	"lectio/internal/study"
)

type stubRunner struct {
	result pipeline.RunResult
	err    error
	last   pipeline.RunRequest
}

func (r *stubRunner) Run(_ context.Context, req pipeline.RunRequest) (pipeline.RunResult, error) {
	r.last = req
	return r.result, r.err
}

func testServer(t *testing.T, runner Runner, store *study.Store) *httptest.Server {
	t.Helper()
	srv := New(DefaultSettings(), runner, store)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func seedStore(t *testing.T) (*study.Store, study.Artifact) {
	t.Helper()
	store := study.NewStore(t.TempDir(), study.WithClock(func() time.Time {
		return time.Date(2025, time.June, 3, 9, 0, 0, 0, time.UTC)
	}))
	artifact, err := store.Save(study.SaveRequest{
		Engine:    "threshold",
		Reference: "John 3:16",
		Body:      "## Threshold One: Archaeological Dive\n\ncontent\n",
		WordCount: 2900,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	return store, artifact
}

func TestGenerateEndpoint(t *testing.T) {
	store, artifact := seedStore(t)
	runner := &stubRunner{result: pipeline.RunResult{
		Artifact: artifact,
		Duration: 2 * time.Second,
	}}
	ts := testServer(t, runner, store)

	payload := `{"protocol":"threshold","query":"passage","citation":"John 3:16","preferences":{"length":"short","tone_level":7}}`
	resp, err := http.Post(ts.URL+"/generate", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("POST /generate: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var body generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Study.Slug != artifact.Metadata.Slug {
		t.Errorf("unexpected slug %q", body.Study.Slug)
	}
	if runner.last.Protocol != "threshold" {
		t.Errorf("protocol not forwarded: %+v", runner.last)
	}
	if runner.last.Preferences == nil || runner.last.Preferences.Length != "short" {
		t.Errorf("preferences not forwarded: %+v", runner.last.Preferences)
	}
	if runner.last.Query.Kind != reference.QueryPassage {
		t.Errorf("unexpected query kind %q", runner.last.Query.Kind)
	}
}

func TestGenerateMapsResolveFailures(t *testing.T) {
	store, _ := seedStore(t)
	runner := &stubRunner{err: &pipeline.StageError{
		Stage: pipeline.StageResolve,
		Err:   reference.ErrSourceUnavailable,
	}}
	ts := testServer(t, runner, store)

	resp, err := http.Post(ts.URL+"/generate", "application/json",
		strings.NewReader(`{"protocol":"threshold","query":"moravian"}`))
	if err != nil {
		t.Fatalf("POST /generate: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}

	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Stage != "resolve" {
		t.Errorf("expected resolve stage, got %q", body.Stage)
	}
}

func TestGenerateRejectsInvalidJSON(t *testing.T) {
	store, _ := seedStore(t)
	ts := testServer(t, &stubRunner{}, store)

	resp, err := http.Post(ts.URL+"/generate", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatalf("POST /generate: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestListStudies(t *testing.T) {
	store, artifact := seedStore(t)
	ts := testServer(t, &stubRunner{}, store)

	resp, err := http.Get(ts.URL + "/studies")
	if err != nil {
		t.Fatalf("GET /studies: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Studies []study.Metadata `json:"studies"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Studies) != 1 || body.Studies[0].Slug != artifact.Metadata.Slug {
		t.Errorf("unexpected listing: %+v", body.Studies)
	}
}

func TestGetStudy(t *testing.T) {
	store, artifact := seedStore(t)
	ts := testServer(t, &stubRunner{}, store)

	resp, err := http.Get(ts.URL + "/studies/" + artifact.Metadata.Slug)
	if err != nil {
		t.Fatalf("GET /studies/{slug}: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Study study.Metadata `json:"study"`
		Body  string         `json:"body"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(body.Body, "Archaeological Dive") {
		t.Errorf("body missing content: %q", body.Body)
	}
}

func TestGetStudyNotFound(t *testing.T) {
	store, _ := seedStore(t)
	ts := testServer(t, &stubRunner{}, store)

	resp, err := http.Get(ts.URL + "/studies/threshold_nowhere_20240101")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	store, _ := seedStore(t)
	ts := testServer(t, &stubRunner{}, store)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestStartAndShutdown(t *testing.T) {
	store, _ := seedStore(t)
	settings := DefaultSettings()
	settings.Port = 0 // ephemeral
	srv := New(settings, &stubRunner{}, store)

	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if srv.Addr() == "" {
		t.Error("expected bound address")
	}
	if srv.CurrentStatus() != StatusReady {
		t.Errorf("expected ready, got %s", srv.CurrentStatus())
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
