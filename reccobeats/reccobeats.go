// Package reccobeats is the feature-service client: batch audio features
// (tempo, key, mode) keyed by Spotify track id.
package reccobeats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mager/slipmat/config"
	"github.com/mager/slipmat/slipmat"
	"go.uber.org/zap"
)

const (
	// maxBatchSize is the service's ceiling for one audio-features call.
	maxBatchSize = 40

	requestTimeout = 10 * time.Second
)

type Client struct {
	log        *zap.SugaredLogger
	baseURL    string
	httpClient *http.Client
}

// ProvideReccobeats builds the client with a fixed request timeout.
func ProvideReccobeats(cfg config.Config, log *zap.SugaredLogger) *Client {
	return &Client{
		log:        log,
		baseURL:    strings.TrimRight(cfg.ReccobeatsURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

var Options = ProvideReccobeats

// audioFeaturesResponse is the typed boundary for the service payload.
// Tempo/key/mode are pointers: the service omits what it doesn't know.
type audioFeaturesResponse struct {
	Content []audioFeature `json:"content"`
}

type audioFeature struct {
	ID           string   `json:"id"`
	Href         string   `json:"href"`
	Tempo        *float64 `json:"tempo"`
	Key          *int     `json:"key"`
	Mode         *int     `json:"mode"`
	Danceability *float64 `json:"danceability"`
	Energy       *float64 `json:"energy"`
}

// spotifyID recovers the Spotify track id, preferring the open.spotify.com
// href over the service's own id.
func (f audioFeature) spotifyID() string {
	const marker = "open.spotify.com/track/"
	if i := strings.Index(f.Href, marker); i >= 0 {
		id := f.Href[i+len(marker):]
		if j := strings.IndexAny(id, "?/"); j >= 0 {
			id = id[:j]
		}
		return id
	}
	return f.ID
}

// BatchFeatures fetches feature samples for the given ids, chunking to the
// service's batch ceiling and issuing chunks in parallel. A failed chunk is
// logged and skipped; its ids just come back absent.
func (c *Client) BatchFeatures(ctx context.Context, ids []string) (map[string]slipmat.FeatureSample, error) {
	out := make(map[string]slipmat.FeatureSample, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for start := 0; start < len(ids); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		wg.Add(1)
		go func(chunk []string) {
			defer wg.Done()
			samples, err := c.fetchChunk(ctx, chunk)
			if err != nil {
				c.log.Warnw("audio features chunk failed", "ids", len(chunk), "error", err)
				return
			}
			mu.Lock()
			for id, s := range samples {
				out[id] = s
			}
			mu.Unlock()
		}(chunk)
	}
	wg.Wait()

	return out, nil
}

func (c *Client) fetchChunk(ctx context.Context, ids []string) (map[string]slipmat.FeatureSample, error) {
	endpoint := fmt.Sprintf("%s/v1/audio-features?ids=%s",
		c.baseURL, url.QueryEscape(strings.Join(ids, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("audio-features: unexpected status %d", resp.StatusCode)
	}

	var payload audioFeaturesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	out := make(map[string]slipmat.FeatureSample, len(payload.Content))
	for _, item := range payload.Content {
		id := item.spotifyID()
		if id == "" {
			continue
		}
		out[id] = slipmat.FeatureSample{
			Tempo:        item.Tempo,
			Key:          item.Key,
			Mode:         item.Mode,
			Danceability: item.Danceability,
			Energy:       item.Energy,
		}
	}
	return out, nil
}
