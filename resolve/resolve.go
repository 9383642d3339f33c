// Package resolve is the resolution engine: it turns parsed track-listing
// entries into scored catalog matches and enriches them with tempo and key
// from the feature service.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mager/slipmat/slipmat"
	"github.com/mager/slipmat/tracklist"
	"go.uber.org/zap"
)

// Candidate is the engine's read-only view of one catalog recording or album.
type Candidate struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Artists []string `json:"artists"`
	// DurationSec is 0 when the catalog reported no duration.
	DurationSec int `json:"duration_sec,omitempty"`
	Popularity  int `json:"popularity"`
	// TotalTracks is set for album candidates only.
	TotalTracks int `json:"total_tracks,omitempty"`

	Disc        int    `json:"disc,omitempty"`
	TrackNumber int    `json:"track_number,omitempty"`
	URL         string `json:"url,omitempty"`
	Image       string `json:"image,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
}

// ScoredCandidate is a Candidate with its textual score breakdown and, after
// enrichment, its musical fingerprint and enhanced score.
type ScoredCandidate struct {
	Candidate

	TitleSimilarity  float64 `json:"title_similarity"`
	ArtistSimilarity float64 `json:"artist_similarity"`
	DurationPenalty  float64 `json:"duration_penalty"`
	Score            float64 `json:"score"`

	BPM     *int   `json:"bpm"`
	Camelot string `json:"camelot"`
	KeyName string `json:"key_name"`
	// EnhancedScore is Score plus feature presence and consensus bonuses.
	// Before enrichment it equals Score.
	EnhancedScore float64 `json:"enhanced_score"`
}

// Catalog is the search surface of the remote catalog service.
type Catalog interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]Candidate, error)
	SearchAlbums(ctx context.Context, query string, limit int) ([]Candidate, error)
	// AlbumTracks returns the album's tracks in disc/track order.
	AlbumTracks(ctx context.Context, albumID string) ([]Candidate, error)
	// Tracks batch-fetches full track records (popularity included) by id.
	Tracks(ctx context.Context, ids []string) (map[string]Candidate, error)
	Track(ctx context.Context, id string) (*Candidate, error)
}

// FeatureSource is the batch surface of the remote feature service. Ids the
// service doesn't know are simply absent from the result map.
type FeatureSource interface {
	BatchFeatures(ctx context.Context, ids []string) (map[string]slipmat.FeatureSample, error)
}

// Contract-violation errors: these indicate a caller bug, unlike input noise
// or upstream failures, which degrade silently.
var (
	ErrNoQuery     = errors.New("resolve: entry has neither title nor artist")
	ErrBadLimit    = errors.New("resolve: ranked limit must be positive")
	ErrUnknownMode = errors.New("resolve: unknown processing mode")
)

const (
	searchLimit = 10

	// acceptThreshold gates single-best resolution: below it, a wrong match
	// would silently corrupt downstream metadata, so no match wins.
	acceptThreshold = 0.55
	// rankedFloor is the much looser bar for candidates a human picks from.
	rankedFloor = 0.30

	titleWeight  = 0.6
	artistWeight = 0.4

	// durations within this many seconds are treated as equal
	durationSlackSec   = 5
	maxDurationPenalty = 0.5
)

// Resolver issues catalog queries and scores the candidates.
type Resolver struct {
	log     *zap.SugaredLogger
	catalog Catalog
}

// NewResolver builds a Resolver on top of a catalog.
func NewResolver(log *zap.SugaredLogger, catalog Catalog) *Resolver {
	return &Resolver{log: log, catalog: catalog}
}

// ResolveBest returns the single best-scoring track candidate, or nil when no
// candidate clears the acceptance threshold. Upstream search failures are
// logged and treated as no data.
func (r *Resolver) ResolveBest(ctx context.Context, e tracklist.Entry) (*ScoredCandidate, error) {
	scored, err := r.searchAndScore(ctx, e, false)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 || scored[0].Score < acceptThreshold {
		return nil, nil
	}
	best := scored[0]
	return &best, nil
}

// ResolveRanked returns every candidate at or above the ranked floor, best
// first, capped to limit. This feeds disambiguation, not automatic acceptance.
func (r *Resolver) ResolveRanked(ctx context.Context, e tracklist.Entry, limit int) ([]ScoredCandidate, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadLimit, limit)
	}
	scored, err := r.searchAndScore(ctx, e, false)
	if err != nil {
		return nil, err
	}

	var out []ScoredCandidate
	for _, sc := range scored {
		if sc.Score < rankedFloor {
			break
		}
		out = append(out, sc)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// ResolveAlbum returns the best-scoring album candidate, threshold-gated the
// same way as tracks; the duration term never applies to albums.
func (r *Resolver) ResolveAlbum(ctx context.Context, e tracklist.Entry) (*ScoredCandidate, error) {
	scored, err := r.searchAndScore(ctx, e, true)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 || scored[0].Score < acceptThreshold {
		return nil, nil
	}
	best := scored[0]
	return &best, nil
}

func (r *Resolver) searchAndScore(ctx context.Context, e tracklist.Entry, album bool) ([]ScoredCandidate, error) {
	if e.Title == "" && e.Artist == "" {
		return nil, ErrNoQuery
	}

	cands := r.search(ctx, structuredQuery(e, album), album)
	if len(cands) == 0 {
		// The structured query systematically under-matches abbreviated or
		// reordered artist credits, so the loose retry is mandatory.
		cands = r.search(ctx, looseQuery(e), album)
	}

	scored := make([]ScoredCandidate, 0, len(cands))
	for _, c := range cands {
		scored = append(scored, r.score(e, c, album))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].Popularity != scored[j].Popularity {
			return scored[i].Popularity > scored[j].Popularity
		}
		return scored[i].TotalTracks > scored[j].TotalTracks
	})
	return scored, nil
}

func (r *Resolver) search(ctx context.Context, query string, album bool) []Candidate {
	var (
		cands []Candidate
		err   error
	)
	if album {
		cands, err = r.catalog.SearchAlbums(ctx, query, searchLimit)
	} else {
		cands, err = r.catalog.SearchTracks(ctx, query, searchLimit)
	}
	if err != nil {
		r.log.Warnw("catalog search failed", "query", query, "error", err)
		return nil
	}
	return cands
}

// structuredQuery scopes title and artist to their catalog fields.
func structuredQuery(e tracklist.Entry, album bool) string {
	field := "track"
	if album {
		field = "album"
	}
	if e.Artist == "" {
		return fmt.Sprintf("%s:%q", field, e.Title)
	}
	return fmt.Sprintf("%s:%q artist:%q", field, e.Title, e.Artist)
}

// looseQuery is the unscoped free-text form.
func looseQuery(e tracklist.Entry) string {
	if e.Artist == "" {
		return e.Title
	}
	return e.Artist + " " + e.Title
}

func (r *Resolver) score(e tracklist.Entry, c Candidate, album bool) ScoredCandidate {
	sc := ScoredCandidate{Candidate: c}

	sc.TitleSimilarity = Similarity(e.Title, c.Name)
	if e.Artist != "" {
		sc.ArtistSimilarity = BestArtistSimilarity(e.Artist, c.Artists)
	}

	if !album && e.DurationSec != nil && c.DurationSec > 0 {
		diff := c.DurationSec - *e.DurationSec
		if diff < 0 {
			diff = -diff
		}
		if diff > durationSlackSec {
			sc.DurationPenalty = math.Min(maxDurationPenalty, float64(diff)/60)
		}
	}

	sc.Score = titleWeight*sc.TitleSimilarity + artistWeight*sc.ArtistSimilarity - sc.DurationPenalty
	sc.EnhancedScore = sc.Score
	return sc
}
