// Package feed retrieves IPC API payloads over HTTP with optional on-disk
// caching of responses for offline reruns. Retrieval failures propagate to
// the caller; the pipeline does not retry.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"

	"ipccli/internal/config"
	"ipccli/internal/errors"
)

// Client fetches JSON documents and files from the IPC API.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	baseURL     string
	savedDir    string
	downloadDir string
	save        bool
	useSaved    bool
	logger      *slog.Logger
}

// NewClient creates a feed client. savedDir holds cached JSON responses when
// saving or replaying; downloadDir receives fetched files (GeoJSON
// boundaries).
func NewClient(cfg config.FeedConfig, savedDir, downloadDir string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		limiter:     rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		savedDir:    savedDir,
		downloadDir: downloadDir,
		save:        cfg.SaveData,
		useSaved:    cfg.UseSaved,
		logger:      logger,
	}
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DownloadJSON fetches url and decodes the response body as JSON. In
// use-saved mode the cached copy is decoded instead of touching the network;
// in save mode the body is written to the saved-data directory after a
// successful fetch.
func (c *Client) DownloadJSON(ctx context.Context, url string) (any, error) {
	cachePath := filepath.Join(c.savedDir, cacheFilename(url)+".json")

	var body []byte
	if c.useSaved {
		data, err := os.ReadFile(cachePath)
		if err != nil {
			return nil, errors.NewStorageError(
				fmt.Sprintf("no saved data for %s", url), err)
		}
		body = data
	} else {
		data, err := c.fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		body = data
		if c.save {
			if err := c.writeSaved(cachePath, body); err != nil {
				return nil, err
			}
		}
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, errors.NewParsingError(
			fmt.Sprintf("failed to decode JSON from %s", url), err)
	}
	return decoded, nil
}

// DownloadFile fetches url into the download directory under filename and
// returns the local path. In use-saved mode the saved copy is used.
func (c *Client) DownloadFile(ctx context.Context, url, filename string) (string, error) {
	path := filepath.Join(c.downloadDir, filename)
	savedPath := filepath.Join(c.savedDir, filename)

	if c.useSaved {
		if _, err := os.Stat(savedPath); err != nil {
			return "", errors.NewStorageError(
				fmt.Sprintf("no saved file for %s", url), err)
		}
		return savedPath, nil
	}

	body, err := c.fetch(ctx, url)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", errors.NewStorageError("failed to create download directory", err)
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", errors.NewStorageError(
			fmt.Sprintf("failed to write downloaded file %s", path), err)
	}
	if c.save {
		if err := c.writeSaved(savedPath, body); err != nil {
			return "", err
		}
	}
	return path, nil
}

// fetch performs one rate-limited GET and returns the body.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.NewNetworkError("rate limiter interrupted", err)
	}

	c.logger.DebugContext(ctx, "fetching", slog.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewNetworkError(fmt.Sprintf("invalid request for %s", url), err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewNetworkError(fmt.Sprintf("request to %s failed", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewNetworkError(
			fmt.Sprintf("request to %s returned status %d", url, resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkError(fmt.Sprintf("failed to read body from %s", url), err)
	}
	return body, nil
}

func (c *Client) writeSaved(path string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create saved-data directory", err)
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return errors.NewStorageError(
			fmt.Sprintf("failed to save response to %s", path), err)
	}
	return nil
}

// cacheFilename derives a stable filesystem name from a URL.
func cacheFilename(url string) string {
	name := url
	if idx := strings.Index(name, "://"); idx >= 0 {
		name = name[idx+3:]
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
