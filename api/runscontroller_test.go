package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"aigongjang/config"
	"aigongjang/pipeline"
	"aigongjang/state"
	"aigongjang/types"
)

type stubScript struct{}

func (stubScript) Generate(ctx context.Context, topic string, cfg config.RunConfig) (*types.Script, error) {
	return nil, errors.New("no upstream in tests")
}

func testRouter(t *testing.T) (*gin.Engine, *state.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := state.NewManager()
	deps := Deps{
		Pipeline: &pipeline.Pipeline{Script: stubScript{}, State: st},
		State:    st,
		Defaults: config.RunConfig{WorkDir: t.TempDir(), OutputDir: t.TempDir()},
	}
	return NewRouter(deps), st
}

func TestHealth(t *testing.T) {
	r, _ := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGenerateRequiresTopic(t *testing.T) {
	r, _ := testRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGenerateAcknowledgesWithRunID(t *testing.T) {
	r, _ := testRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate",
		strings.NewReader(`{"topic": "why the sky is blue"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}
	var resp GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.RunID == "" {
		t.Fatal("no run id in response")
	}
}

func TestGetUnknownRun(t *testing.T) {
	r, _ := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetVideoBeforeRender(t *testing.T) {
	r, st := testRouter(t)
	st.Begin("run-1", "topic")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs/run-1/video", nil))
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestListRunsIncludesFinished(t *testing.T) {
	r, st := testRouter(t)
	st.Begin("run-1", "first topic")
	st.Finish("run-1", types.RunReport{State: types.StateFailed, Error: "boom"})
	st.Begin("run-2", "second topic")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Runs []state.Snapshot `json:"runs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(resp.Runs))
	}
	if resp.Runs[0].Report.State != types.StateFailed {
		t.Fatalf("first run state = %s", resp.Runs[0].Report.State)
	}
}
