package spotify

import (
	"context"
	"math"

	"github.com/mager/slipmat/resolve"
	spot "github.com/zmb3/spotify/v2"
	"go.uber.org/zap"
)

// fullTrackBatchSize is Spotify's ceiling for one GET /tracks call.
const fullTrackBatchSize = 50

// Catalog adapts the Spotify client to the resolution engine's catalog
// interface, translating its payloads into engine candidates at the boundary.
type Catalog struct {
	log    *zap.SugaredLogger
	client *SpotifyClient
}

// NewCatalog builds the adapter.
func NewCatalog(log *zap.SugaredLogger, client *SpotifyClient) *Catalog {
	return &Catalog{log: log, client: client}
}

// SearchTracks runs a track search; the query may use Spotify's field syntax
// (track:"..." artist:"...") or be free text.
func (c *Catalog) SearchTracks(ctx context.Context, query string, limit int) ([]resolve.Candidate, error) {
	results, err := c.client.Client.Search(ctx, query, spot.SearchTypeTrack, spot.Limit(limit))
	if err != nil {
		return nil, err
	}

	var out []resolve.Candidate
	if results.Tracks != nil {
		for i := range results.Tracks.Tracks {
			out = append(out, trackCandidate(&results.Tracks.Tracks[i]))
		}
	}
	return out, nil
}

// SearchAlbums runs an album search and backfills popularity and track count
// from the full album records; the search payload alone omits popularity.
func (c *Catalog) SearchAlbums(ctx context.Context, query string, limit int) ([]resolve.Candidate, error) {
	results, err := c.client.Client.Search(ctx, query, spot.SearchTypeAlbum, spot.Limit(limit))
	if err != nil {
		return nil, err
	}
	if results.Albums == nil || len(results.Albums.Albums) == 0 {
		return nil, nil
	}

	simple := results.Albums.Albums
	ids := make([]spot.ID, 0, len(simple))
	for _, a := range simple {
		ids = append(ids, a.ID)
	}

	// the search payload carries neither popularity nor a track count
	type albumExtra struct {
		popularity  int
		totalTracks int
	}
	extras := make(map[spot.ID]albumExtra)
	full, err := c.client.Client.GetAlbums(ctx, ids)
	if err != nil {
		c.log.Warnw("full album fetch failed", "albums", len(ids), "error", err)
	} else {
		for _, fa := range full {
			if fa != nil {
				extras[fa.ID] = albumExtra{
					popularity:  int(fa.Popularity),
					totalTracks: int(fa.Tracks.Total),
				}
			}
		}
	}

	out := make([]resolve.Candidate, 0, len(simple))
	for _, a := range simple {
		out = append(out, resolve.Candidate{
			ID:          string(a.ID),
			Name:        a.Name,
			Artists:     ArtistNames(a.Artists),
			Popularity:  extras[a.ID].popularity,
			TotalTracks: extras[a.ID].totalTracks,
			URL:         a.ExternalURLs["spotify"],
			Image:       GetThumb(a),
			ReleaseDate: a.ReleaseDate,
		})
	}
	return out, nil
}

// AlbumTracks pages through an album's track list in catalog order.
func (c *Catalog) AlbumTracks(ctx context.Context, albumID string) ([]resolve.Candidate, error) {
	page, err := c.client.Client.GetAlbumTracks(ctx, spot.ID(albumID), spot.Limit(fullTrackBatchSize))
	if err != nil {
		return nil, err
	}

	var out []resolve.Candidate
	for {
		for i := range page.Tracks {
			t := &page.Tracks[i]
			out = append(out, resolve.Candidate{
				ID:          string(t.ID),
				Name:        t.Name,
				Artists:     ArtistNames(t.Artists),
				DurationSec: int(math.Round(float64(t.Duration) / 1000)),
				Disc:        int(t.DiscNumber),
				TrackNumber: int(t.TrackNumber),
				URL:         t.ExternalURLs["spotify"],
			})
		}
		err = c.client.Client.NextPage(ctx, page)
		if err == spot.ErrNoMorePages {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Tracks batch-fetches full track records by id, chunked to the API ceiling.
func (c *Catalog) Tracks(ctx context.Context, ids []string) (map[string]resolve.Candidate, error) {
	out := make(map[string]resolve.Candidate, len(ids))
	for start := 0; start < len(ids); start += fullTrackBatchSize {
		end := start + fullTrackBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := make([]spot.ID, 0, end-start)
		for _, id := range ids[start:end] {
			chunk = append(chunk, spot.ID(id))
		}

		tracks, err := c.client.Client.GetTracks(ctx, chunk)
		if err != nil {
			return nil, err
		}
		for _, t := range tracks {
			if t == nil {
				continue
			}
			out[string(t.ID)] = trackCandidate(t)
		}
	}
	return out, nil
}

// Track fetches one full track record by id.
func (c *Catalog) Track(ctx context.Context, id string) (*resolve.Candidate, error) {
	t, err := c.client.Client.GetTrack(ctx, spot.ID(id))
	if err != nil {
		return nil, err
	}
	cand := trackCandidate(t)
	return &cand, nil
}

func trackCandidate(t *spot.FullTrack) resolve.Candidate {
	return resolve.Candidate{
		ID:          string(t.ID),
		Name:        t.Name,
		Artists:     ArtistNames(t.Artists),
		DurationSec: int(math.Round(float64(t.Duration) / 1000)),
		Popularity:  int(t.Popularity),
		Disc:        int(t.DiscNumber),
		TrackNumber: int(t.TrackNumber),
		URL:         t.ExternalURLs["spotify"],
		Image:       GetThumb(t.Album),
		ReleaseDate: t.Album.ReleaseDate,
	}
}
