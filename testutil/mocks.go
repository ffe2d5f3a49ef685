package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// SetupDiscourseEngineMock creates a mock discourse-engine server answering /health,
// /embed and /analyze with deterministic, minimal-but-valid payloads, so service-layer
// tests can exercise the analysis pipeline without a real embedding/LLM backend.
func SetupDiscourseEngineMock(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/health":
			json.NewEncoder(w).Encode(map[string]any{"status": "ok"})

		case "/embed":
			var req struct {
				Texts []string `json:"texts"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)

			embeddings := make([][]float32, len(req.Texts))
			for i := range req.Texts {
				embeddings[i] = mockEmbedding()
			}
			json.NewEncoder(w).Encode(map[string]any{"embeddings_1536": embeddings})

		case "/analyze":
			json.NewEncoder(w).Encode(map[string]any{
				"i_nodes":            []any{},
				"s_nodes":            []any{},
				"edges":              []any{},
				"enthymemes":         []any{},
				"socratic_questions": []any{},
				"concept_nodes":      []any{},
				"equivocation_flags": []any{},
			})

		case "/batch/submit":
			json.NewEncoder(w).Encode(map[string]any{"job_name": "mock-job-1"})

		case "/batch/poll":
			json.NewEncoder(w).Encode(map[string]any{"done": true, "gcs_path": "gs://mock-bucket/mock-job-1.jsonl"})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

// SetupDiscourseAnalyzeMock creates a mock discourse-engine server whose /analyze response
// is the caller-supplied graph fragment, for tests asserting on specific extracted nodes.
func SetupDiscourseAnalyzeMock(t *testing.T, graph map[string]any) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path != "/analyze" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(graph)
	}))
}

// SetupDiscourseErrorMock creates a mock discourse-engine server that fails every request,
// for exercising C6's failed-run and C8's failed-checkpoint paths.
func SetupDiscourseErrorMock(t *testing.T, statusCode int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(map[string]any{"error": "mock discourse engine failure"})
	}))
}

// mockEmbedding returns a fixed 1536-dimensional vector whose components cycle through
// (i%7)/7. Every call returns the same vector, so two mock embeddings are always identical.
func mockEmbedding() []float32 {
	const dim = 1536
	v := make([]float32, dim)
	for i := range v {
		v[i] = float32(i%7) / 7.0
	}
	return v
}

// SetupCustomMock creates a custom mock server with a provided handler.
func SetupCustomMock(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(handler)
}
