package resolve

import (
	"context"
	"sort"
	"strings"

	"github.com/mager/slipmat/slipmat"
	"github.com/mager/slipmat/tracklist"
	"go.uber.org/zap"
)

// Processing modes accepted by Process.
const (
	ModeTracks = "tracks"
	ModeAlbums = "albums"
)

// Result is the structured output of one pipeline run. Exactly one of Tracks
// or Albums is populated, matching Mode.
type Result struct {
	Mode   string                  `json:"mode"`
	Tracks []slipmat.ResolvedTrack `json:"tracks,omitempty"`
	Albums []slipmat.ResolvedAlbum `json:"albums,omitempty"`
}

// Selection is what ranked mode surfaces for one line: the parsed entry and
// its consensus-enhanced candidates, best first. Candidates may be empty,
// which reports "no match" for the line.
type Selection struct {
	Entry      tracklist.Entry
	Candidates []ScoredCandidate
}

// Selector decides a ranked-mode disambiguation. Returning ok=false, or an
// index out of range, drops the line from the results.
type Selector interface {
	Choose(ctx context.Context, sel Selection) (index int, ok bool)
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(ctx context.Context, sel Selection) (int, bool)

// Choose implements Selector.
func (f SelectorFunc) Choose(ctx context.Context, sel Selection) (int, bool) {
	return f(ctx, sel)
}

// Pipeline sequences normalize, parse, resolve, and enrich over a pasted
// block. Lines run strictly in order because each entry may borrow the
// artist context established by the ones before it.
type Pipeline struct {
	log      *zap.SugaredLogger
	catalog  Catalog
	resolver *Resolver
	enricher *Enricher
}

// NewPipeline wires the orchestrator.
func NewPipeline(log *zap.SugaredLogger, catalog Catalog, resolver *Resolver, enricher *Enricher) *Pipeline {
	return &Pipeline{log: log, catalog: catalog, resolver: resolver, enricher: enricher}
}

// Process dispatches on mode. An unknown mode is a caller bug and returns
// ErrUnknownMode rather than degrading.
func (p *Pipeline) Process(ctx context.Context, mode, raw string) (*Result, error) {
	switch mode {
	case ModeTracks:
		tracks, err := p.ProcessTracks(ctx, raw)
		if err != nil {
			return nil, err
		}
		return &Result{Mode: ModeTracks, Tracks: tracks}, nil
	case ModeAlbums:
		albums, err := p.ProcessAlbums(ctx, raw)
		if err != nil {
			return nil, err
		}
		return &Result{Mode: ModeAlbums, Albums: albums}, nil
	default:
		return nil, ErrUnknownMode
	}
}

type lineHit struct {
	entry tracklist.Entry
	cand  ScoredCandidate
}

// ProcessTracks resolves each line to its single best track and enriches the
// whole batch. Lines with no confident match are dropped, not errors.
func (p *Pipeline) ProcessTracks(ctx context.Context, raw string) ([]slipmat.ResolvedTrack, error) {
	var hits []lineHit

	var sess tracklist.Context
	for _, entry := range p.parseBlock(raw, &sess) {
		cand, err := p.resolver.ResolveBest(ctx, entry)
		if err != nil {
			return nil, err
		}
		if cand == nil {
			p.log.Debugw("no confident match", "artist", entry.Artist, "title", entry.Title)
			continue
		}
		hits = append(hits, lineHit{entry: entry, cand: *cand})
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.cand.ID)
	}
	full := p.fullTracks(ctx, ids)
	samples := p.enricher.Samples(ctx, ids)

	tracks := make([]slipmat.ResolvedTrack, 0, len(hits))
	for i, h := range hits {
		t := p.buildTrack(h.cand.Candidate, full, samples)
		t.ArtistInferred = h.entry.ArtistInferred
		t.TrackNumber = i + 1
		t.Score = h.cand.Score
		tracks = append(tracks, t)
	}
	return tracks, nil
}

// ProcessAlbums resolves each line to an album and returns each album's
// ordered, enriched track list.
func (p *Pipeline) ProcessAlbums(ctx context.Context, raw string) ([]slipmat.ResolvedAlbum, error) {
	var albums []slipmat.ResolvedAlbum

	var sess tracklist.Context
	for _, entry := range p.parseBlock(raw, &sess) {
		cand, err := p.resolver.ResolveAlbum(ctx, entry)
		if err != nil {
			return nil, err
		}
		if cand == nil {
			p.log.Debugw("no confident album match", "artist", entry.Artist, "title", entry.Title)
			continue
		}

		album, ok := p.buildAlbum(ctx, cand.Candidate)
		if !ok {
			continue
		}
		albums = append(albums, album)
	}
	return albums, nil
}

// ProcessRanked resolves each line to a ranked, consensus-enhanced candidate
// list and lets the selector pick. Lines the selector declines are dropped.
func (p *Pipeline) ProcessRanked(ctx context.Context, raw string, limit int, selector Selector) ([]slipmat.ResolvedTrack, error) {
	var tracks []slipmat.ResolvedTrack

	var sess tracklist.Context
	for _, entry := range p.parseBlock(raw, &sess) {
		ranked, err := p.resolver.ResolveRanked(ctx, entry, limit)
		if err != nil {
			return nil, err
		}
		ranked = p.enricher.Enrich(ctx, ranked)

		idx, ok := selector.Choose(ctx, Selection{Entry: entry, Candidates: ranked})
		if !ok || idx < 0 || idx >= len(ranked) {
			continue
		}

		chosen := ranked[idx]
		t := slipmat.ResolvedTrack{
			ID:             chosen.ID,
			Name:           chosen.Name,
			Artists:        strings.Join(chosen.Artists, ", "),
			ArtistInferred: entry.ArtistInferred,
			BPM:            chosen.BPM,
			Camelot:        chosen.Camelot,
			KeyName:        chosen.KeyName,
			SpotifyURL:     chosen.URL,
			Image:          chosen.Image,
			Score:          chosen.EnhancedScore,
		}
		pop := chosen.Popularity
		t.Popularity = &pop
		t.TrackNumber = len(tracks) + 1
		tracks = append(tracks, t)
	}
	return tracks, nil
}

// parseBlock runs normalize and parse over the block, carrying artist
// context forward. Lines that normalize to nothing never reach the resolver.
func (p *Pipeline) parseBlock(raw string, sess *tracklist.Context) []tracklist.Entry {
	var entries []tracklist.Entry
	for _, line := range strings.Split(raw, "\n") {
		normalized := tracklist.Normalize(line)
		if normalized == "" {
			continue
		}
		entry := tracklist.Parse(normalized, sess.Artist())
		sess.Observe(entry)
		if entry.Title == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func (p *Pipeline) buildAlbum(ctx context.Context, album Candidate) (slipmat.ResolvedAlbum, bool) {
	albumTracks, err := p.catalog.AlbumTracks(ctx, album.ID)
	if err != nil {
		p.log.Warnw("album tracks fetch failed", "album", album.Name, "error", err)
		return slipmat.ResolvedAlbum{}, false
	}

	ids := make([]string, 0, len(albumTracks))
	for _, t := range albumTracks {
		ids = append(ids, t.ID)
	}
	full := p.fullTracks(ctx, ids)
	samples := p.enricher.Samples(ctx, ids)

	sort.SliceStable(albumTracks, func(i, j int) bool {
		if albumTracks[i].Disc != albumTracks[j].Disc {
			return albumTracks[i].Disc < albumTracks[j].Disc
		}
		return albumTracks[i].TrackNumber < albumTracks[j].TrackNumber
	})

	tracks := make([]slipmat.ResolvedTrack, 0, len(albumTracks))
	artistSet := make(map[string]struct{})
	for _, at := range albumTracks {
		t := p.buildTrack(at, full, samples)
		t.Disc = at.Disc
		t.TrackNumber = at.TrackNumber
		if t.Artists != "" {
			artistSet[t.Artists] = struct{}{}
		}
		tracks = append(tracks, t)
	}

	singleArtist := ""
	if len(artistSet) == 1 {
		for a := range artistSet {
			singleArtist = a
		}
	}

	artists := strings.Join(album.Artists, ", ")
	year := ""
	if album.ReleaseDate != "" {
		year = strings.SplitN(album.ReleaseDate, "-", 2)[0]
	}
	subtitle := artists
	if year != "" {
		subtitle = artists + " • " + year
	}

	return slipmat.ResolvedAlbum{
		ID:           album.ID,
		Title:        album.Name,
		Subtitle:     subtitle,
		Year:         year,
		TotalTracks:  len(tracks),
		SpotifyURL:   album.URL,
		Artists:      artists,
		SingleArtist: singleArtist,
		Tracks:       tracks,
	}, true
}

// buildTrack assembles a ResolvedTrack, preferring the full catalog record
// (canonical names, popularity) over the lighter candidate copy.
func (p *Pipeline) buildTrack(c Candidate, full map[string]Candidate, samples map[string]slipmat.FeatureSample) slipmat.ResolvedTrack {
	record := c
	if f, ok := full[c.ID]; ok {
		record = f
	}

	t := slipmat.ResolvedTrack{
		ID:         record.ID,
		Name:       record.Name,
		Artists:    strings.Join(record.Artists, ", "),
		SpotifyURL: record.URL,
		Image:      record.Image,
	}
	if f, ok := full[c.ID]; ok {
		pop := f.Popularity
		t.Popularity = &pop
	}
	if s, ok := samples[c.ID]; ok {
		t.BPM, t.Camelot, t.KeyName = DescribeSample(s)
	}
	return t
}

// fullTracks batch-fetches full records, degrading to an empty map on
// upstream failure so the batch continues with candidate data.
func (p *Pipeline) fullTracks(ctx context.Context, ids []string) map[string]Candidate {
	full, err := p.catalog.Tracks(ctx, ids)
	if err != nil {
		p.log.Warnw("full track fetch failed", "ids", len(ids), "error", err)
		return map[string]Candidate{}
	}
	return full
}
