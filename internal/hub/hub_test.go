package hub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveLocalDirectory(t *testing.T) {
	dir := t.TempDir()
	client := NewClient()

	resolved, err := client.Resolve(context.Background(), dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved != dir {
		t.Fatalf("expected path passthrough, got %q", resolved)
	}
}

func TestResolveMissingPath(t *testing.T) {
	client := NewClient()

	_, err := client.Resolve(context.Background(), filepath.Join(t.TempDir(), "missing", "weights"))
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
}

func TestResolveDownloadsRepository(t *testing.T) {
	files := map[string]string{
		"model_index.json":           `{"_class_name": "StableDiffusionPipeline"}`,
		"unet/config.json":           `{"sample_size": 64}`,
		"scheduler/scheduler.json":   `{"num_train_timesteps": 1000}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/models/acme/tiny-sd", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"siblings": [
			{"rfilename": "model_index.json"},
			{"rfilename": "unet/config.json"},
			{"rfilename": "scheduler/scheduler.json"}
		]}`))
	})
	mux.HandleFunc("/acme/tiny-sd/resolve/main/", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path[len("/acme/tiny-sd/resolve/main/"):]
		content, ok := files[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(content))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := &Client{
		HTTP:      server.Client(),
		Endpoint:  server.URL,
		CacheRoot: t.TempDir(),
	}

	dir, err := client.Resolve(context.Background(), "acme/tiny-sd")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	for name, content := range files {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(data) != content {
			t.Fatalf("content of %s: %q", name, string(data))
		}
	}

	// Second resolve must hit the cache, not the (now closed) server.
	server.Close()
	cached, err := client.Resolve(context.Background(), "acme/tiny-sd")
	if err != nil {
		t.Fatalf("cached Resolve: %v", err)
	}
	if cached != dir {
		t.Fatalf("expected cached dir %q, got %q", dir, cached)
	}
}

func TestResolveDownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such repo", http.StatusNotFound)
	}))
	defer server.Close()

	client := &Client{
		HTTP:      server.Client(),
		Endpoint:  server.URL,
		CacheRoot: t.TempDir(),
	}

	_, err := client.Resolve(context.Background(), "acme/absent")
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	if err := EnsureDirs(dir); err != nil {
		t.Fatalf("EnsureDirs on existing dir: %v", err)
	}

	err := EnsureDirs(filepath.Join(dir, "absent"))
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
}

func TestLooksLikeRepoID(t *testing.T) {
	cases := map[string]bool{
		"acme/tiny-sd":        true,
		"tiny-sd":             false,
		"/acme/tiny-sd":       false,
		"acme/tiny-sd/extra":  false,
		"acme/":               false,
	}
	for input, expected := range cases {
		if got := looksLikeRepoID(input); got != expected {
			t.Fatalf("looksLikeRepoID(%q) = %v, want %v", input, got, expected)
		}
	}
}
