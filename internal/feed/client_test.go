package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipccli/internal/config"
)

func testFeedConfig(baseURL string) config.FeedConfig {
	return config.FeedConfig{
		BaseURL:   baseURL,
		Timeout:   5 * time.Second,
		RateLimit: 100,
		Burst:     10,
	}
}

func TestDownloadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"country": "AF", "analysis_date": "May 2023"}]`))
	}))
	defer server.Close()

	client := NewClient(testFeedConfig(server.URL), t.TempDir(), t.TempDir(), nil)

	decoded, err := client.DownloadJSON(context.Background(), server.URL+"/analyses?type=A")
	require.NoError(t, err)

	list, ok := decoded.([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	entry := list[0].(map[string]any)
	assert.Equal(t, "AF", entry["country"])
}

func TestDownloadJSON_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(testFeedConfig(server.URL), t.TempDir(), t.TempDir(), nil)

	_, err := client.DownloadJSON(context.Background(), server.URL+"/analyses")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestDownloadJSON_SaveAndReplay(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	savedDir := t.TempDir()
	url := server.URL + "/population?country=AF"

	saveCfg := testFeedConfig(server.URL)
	saveCfg.SaveData = true
	saver := NewClient(saveCfg, savedDir, t.TempDir(), nil)
	_, err := saver.DownloadJSON(context.Background(), url)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	replayCfg := testFeedConfig(server.URL)
	replayCfg.UseSaved = true
	replayer := NewClient(replayCfg, savedDir, t.TempDir(), nil)
	decoded, err := replayer.DownloadJSON(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "replay must not hit the network")

	entry := decoded.(map[string]any)
	assert.Equal(t, float64(1), entry["id"])
}

func TestDownloadJSON_UseSavedMissing(t *testing.T) {
	cfg := testFeedConfig("http://unused.invalid")
	cfg.UseSaved = true
	client := NewClient(cfg, t.TempDir(), t.TempDir(), nil)

	_, err := client.DownloadJSON(context.Background(), "http://unused.invalid/analyses")
	assert.Error(t, err)
}

func TestDownloadFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type": "FeatureCollection", "features": []}`))
	}))
	defer server.Close()

	downloadDir := t.TempDir()
	client := NewClient(testFeedConfig(server.URL), t.TempDir(), downloadDir, nil)

	path, err := client.DownloadFile(context.Background(), server.URL+"/areas/1/P", "ipc_afg.geojson")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(downloadDir, "ipc_afg.geojson"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FeatureCollection")
}

func TestCacheFilename(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "scheme stripped and punctuation folded",
			url:      "https://api.example.org/analyses?type=A",
			expected: "api_example_org_analyses_type_A",
		},
		{
			name:     "no scheme",
			url:      "host/path",
			expected: "host_path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cacheFilename(tt.url))
		})
	}
}
