// Package hub resolves model sources to local directories, downloading
// pretrained weights from a model hub when the source is a repository
// identifier rather than a filesystem path.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eikonbench/eikon/internal/logging"
)

const (
	// DefaultEndpoint is the model distribution service queried for remote
	// repository identifiers.
	DefaultEndpoint = "https://huggingface.co"

	// EndpointEnv overrides the download endpoint, e.g. to point at a mirror.
	EndpointEnv = "EIKON_HUB_ENDPOINT"
	// CacheRootEnv overrides where downloaded weights are cached.
	CacheRootEnv = "EIKON_HOME"

	completeMarker = ".complete"
)

// ResolutionError reports a model or directory that could not be resolved.
// It is fatal: the caller is expected to abort the whole run.
type ResolutionError struct {
	Source string
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %q: %v", e.Source, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Client downloads model repositories from the hub into a local cache.
type Client struct {
	HTTP      *http.Client
	Endpoint  string
	CacheRoot string
}

// NewClient builds a Client honoring the endpoint and cache-root environment
// overrides.
func NewClient() *Client {
	endpoint := os.Getenv(EndpointEnv)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	cacheRoot := os.Getenv(CacheRootEnv)
	if cacheRoot == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cacheRoot = filepath.Join(home, ".eikon", "hub")
		} else {
			cacheRoot = filepath.Join("eikonData", "hub")
		}
	}
	return &Client{
		HTTP:      &http.Client{Timeout: 10 * time.Minute},
		Endpoint:  endpoint,
		CacheRoot: cacheRoot,
	}
}

// Resolve returns a local directory containing model weights. A source that
// exists on disk is returned as-is; a "namespace/name" identifier is
// downloaded into the cache. Anything else is a ResolutionError.
func (c *Client) Resolve(ctx context.Context, source string) (string, error) {
	if source == "" {
		return "", &ResolutionError{Source: source, Err: fmt.Errorf("empty model source")}
	}

	if info, err := os.Stat(source); err == nil {
		if !info.IsDir() {
			return "", &ResolutionError{Source: source, Err: fmt.Errorf("model source is not a directory")}
		}
		return source, nil
	}

	if !looksLikeRepoID(source) {
		return "", &ResolutionError{Source: source, Err: os.ErrNotExist}
	}

	dir, err := c.download(ctx, source)
	if err != nil {
		return "", &ResolutionError{Source: source, Err: err}
	}
	return dir, nil
}

// EnsureDirs verifies each path exists and is a directory.
func EnsureDirs(paths ...string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return &ResolutionError{Source: path, Err: err}
		}
		if !info.IsDir() {
			return &ResolutionError{Source: path, Err: fmt.Errorf("not a directory")}
		}
	}
	return nil
}

// looksLikeRepoID reports whether source has the namespace/name shape the hub
// accepts.
func looksLikeRepoID(source string) bool {
	parts := strings.Split(source, "/")
	if len(parts) != 2 {
		return false
	}
	return parts[0] != "" && parts[1] != ""
}

// repoManifest mirrors the subset of the hub's model API the client needs.
type repoManifest struct {
	Siblings []struct {
		RFilename string `json:"rfilename"`
	} `json:"siblings"`
}

// download fetches every file of a repository into the cache, reusing a
// previously completed download.
func (c *Client) download(ctx context.Context, repoID string) (string, error) {
	dir := filepath.Join(c.CacheRoot, "models--"+strings.ReplaceAll(repoID, "/", "--"))
	if _, err := os.Stat(filepath.Join(dir, completeMarker)); err == nil {
		logging.LogEvent("[HUB] Using cached weights for %s at %s", repoID, dir)
		return dir, nil
	}

	manifest, err := c.fetchManifest(ctx, repoID)
	if err != nil {
		return "", err
	}
	if len(manifest.Siblings) == 0 {
		return "", fmt.Errorf("repository %s lists no files", repoID)
	}

	logging.LogEvent("[HUB] Downloading %d files for %s", len(manifest.Siblings), repoID)
	for _, sibling := range manifest.Siblings {
		if err := c.fetchFile(ctx, repoID, sibling.RFilename, dir); err != nil {
			return "", fmt.Errorf("download %s: %w", sibling.RFilename, err)
		}
	}

	if err := os.WriteFile(filepath.Join(dir, completeMarker), []byte(time.Now().UTC().Format(time.RFC3339)), 0o644); err != nil {
		return "", fmt.Errorf("mark download complete: %w", err)
	}
	return dir, nil
}

func (c *Client) fetchManifest(ctx context.Context, repoID string) (*repoManifest, error) {
	reqURL := fmt.Sprintf("%s/api/models/%s", strings.TrimRight(c.Endpoint, "/"), repoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query hub: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("hub returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var manifest repoManifest
	if err := json.NewDecoder(resp.Body).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("parse hub manifest: %w", err)
	}
	return &manifest, nil
}

func (c *Client) fetchFile(ctx context.Context, repoID, name, dir string) error {
	segments := strings.Split(name, "/")
	for i := range segments {
		segments[i] = url.PathEscape(segments[i])
	}
	reqURL := fmt.Sprintf("%s/%s/resolve/main/%s",
		strings.TrimRight(c.Endpoint, "/"), repoID, strings.Join(segments, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hub returned %s", resp.Status)
	}

	target := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".partial-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), target)
}
