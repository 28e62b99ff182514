package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestResetSendsDelete(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ix := NewClient(srv.URL, zap.NewNop()).Index("scenes")
	if err := ix.Reset(context.Background()); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/index/scenes" {
		t.Errorf("got %s %s, want DELETE /index/scenes", gotMethod, gotPath)
	}
}

func TestAddPostsDocuments(t *testing.T) {
	var gotBody []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/index/actors" {
			t.Errorf("got %s %s, want POST /index/actors", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ix := NewClient(srv.URL, zap.NewNop()).Index("actors")
	docs := []map[string]any{{"_id": "ac1"}, {"_id": "ac2"}}
	if err := ix.Add(context.Background(), docs); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(gotBody) != 2 || gotBody[0]["_id"] != "ac1" {
		t.Errorf("server received %v", gotBody)
	}
}

func TestAddBatchesBoundsParallelism(t *testing.T) {
	var inFlight, peak int32
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		mu.Lock()
		if n > peak {
			peak = n
		}
		mu.Unlock()
		defer atomic.AddInt32(&inFlight, -1)
		time.Sleep(10 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ix := NewClient(srv.URL, zap.NewNop()).WithParallelism(2).Index("images")
	batches := make([]any, 10)
	for i := range batches {
		batches[i] = []map[string]any{{"_id": "im"}}
	}
	if err := ix.AddBatches(context.Background(), batches); err != nil {
		t.Fatalf("AddBatches: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if peak > 2 {
		t.Errorf("peak in-flight requests = %d, want at most 2", peak)
	}
}

func TestSearchDecodesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/index/scenes/search" {
			t.Errorf("got path %s", r.URL.Path)
		}
		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Query != "beach" || req.Take != 24 {
			t.Errorf("server received %+v", req)
		}
		_ = json.NewEncoder(w).Encode(SearchResponse{
			Items:    []string{"sc1", "sc2"},
			MaxItems: 2,
			NumPages: 1,
		})
	}))
	defer srv.Close()

	ix := NewClient(srv.URL, zap.NewNop()).Index("scenes")
	resp, err := ix.Search(context.Background(), SearchRequest{Query: "beach", Take: 24})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Items) != 2 || resp.Items[0] != "sc1" || resp.NumPages != 1 {
		t.Errorf("got %+v", resp)
	}
}

func TestNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index is locked", http.StatusConflict)
	}))
	defer srv.Close()

	ix := NewClient(srv.URL, zap.NewNop()).Index("scenes")
	if err := ix.Add(context.Background(), []string{"x"}); err == nil {
		t.Fatal("expected error for 409 response")
	}
	if _, err := ix.Search(context.Background(), SearchRequest{}); err == nil {
		t.Fatal("expected error for 409 response")
	}
}
