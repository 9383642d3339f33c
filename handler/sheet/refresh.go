package sheet

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mager/slipmat/resolve"
	"github.com/mager/slipmat/tracklist"
	"go.uber.org/zap"
)

// RefreshHandler re-queries one track by catalog id (preferred) or by
// artist + title search, and returns fresh BPM, key, and popularity.
type RefreshHandler struct {
	log      *zap.SugaredLogger
	catalog  resolve.Catalog
	resolver *resolve.Resolver
	enricher *resolve.Enricher
}

func (*RefreshHandler) Pattern() string {
	return "/api/refresh_track"
}

// NewRefreshHandler builds a new RefreshHandler.
func NewRefreshHandler(log *zap.SugaredLogger, catalog resolve.Catalog, resolver *resolve.Resolver, enricher *resolve.Enricher) *RefreshHandler {
	return &RefreshHandler{
		log:      log,
		catalog:  catalog,
		resolver: resolver,
		enricher: enricher,
	}
}

type RefreshRequest struct {
	SpotifyID string `json:"spotify_id"`
	Artists   string `json:"artists"`
	Title     string `json:"title"`
}

type RefreshResponse struct {
	SpotifyID  string `json:"spotify_id"`
	Name       string `json:"name"`
	Artists    string `json:"artists"`
	BPM        *int   `json:"bpm"`
	Camelot    string `json:"camelot"`
	KeyName    string `json:"key_name"`
	Popularity int    `json:"popularity"`
	SpotifyURL string `json:"spotify_url"`
}

// Refresh one track
// @Summary Re-query BPM, key, and popularity for one track
// @Description Fetch by catalog id when given, otherwise search by artist and title
// @Tags Sheet
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh request"
// @Success 200 {object} RefreshResponse
// @Router /api/refresh_track [post]
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	var track *resolve.Candidate
	if req.SpotifyID != "" {
		t, err := h.catalog.Track(ctx, req.SpotifyID)
		if err != nil {
			h.log.Warnw("track fetch by id failed, falling back to search",
				"id", req.SpotifyID, "error", err)
		} else {
			track = t
		}
	}

	if track == nil {
		title := strings.TrimSpace(req.Title)
		if title == "" {
			http.Error(w, "missing title for search", http.StatusBadRequest)
			return
		}
		entry := tracklist.Entry{Artist: strings.TrimSpace(req.Artists), Title: title}
		best, err := h.resolver.ResolveBest(ctx, entry)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if best == nil {
			http.Error(w, "track not found in search", http.StatusNotFound)
			return
		}
		track = &best.Candidate
	}

	resp := RefreshResponse{
		SpotifyID:  track.ID,
		Name:       track.Name,
		Artists:    strings.Join(track.Artists, ", "),
		Popularity: track.Popularity,
		SpotifyURL: track.URL,
	}

	samples := h.enricher.Samples(ctx, []string{track.ID})
	if s, ok := samples[track.ID]; ok {
		resp.BPM, resp.Camelot, resp.KeyName = resolve.DescribeSample(s)
	}

	json.NewEncoder(w).Encode(resp)
}
