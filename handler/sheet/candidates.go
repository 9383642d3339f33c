package sheet

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mager/slipmat/resolve"
	"github.com/mager/slipmat/tracklist"
	"go.uber.org/zap"
)

const defaultCandidateLimit = 10

// CandidatesHandler is the disambiguation surface: it returns the ranked,
// consensus-enhanced candidate list for one line so a human can pick.
type CandidatesHandler struct {
	log      *zap.SugaredLogger
	resolver *resolve.Resolver
	enricher *resolve.Enricher
}

func (*CandidatesHandler) Pattern() string {
	return "/api/candidates"
}

// NewCandidatesHandler builds a new CandidatesHandler.
func NewCandidatesHandler(log *zap.SugaredLogger, resolver *resolve.Resolver, enricher *resolve.Enricher) *CandidatesHandler {
	return &CandidatesHandler{
		log:      log,
		resolver: resolver,
		enricher: enricher,
	}
}

type CandidatesRequest struct {
	Line string `json:"line"`
	// ContextArtist fills a missing artist, mirroring the block-level
	// carry-forward for a single re-queried line.
	ContextArtist string `json:"context_artist"`
	Limit         int    `json:"limit"`
}

type CandidatesResponse struct {
	Artist         string                    `json:"artist"`
	Title          string                    `json:"title"`
	ArtistInferred bool                      `json:"artist_inferred"`
	Candidates     []resolve.ScoredCandidate `json:"candidates"`
}

// Rank candidates for one line
// @Summary Ranked candidates for one pasted line
// @Description Normalize and parse a single line, then return its ranked candidate matches for disambiguation
// @Tags Sheet
// @Accept json
// @Produce json
// @Param request body CandidatesRequest true "Candidates request"
// @Success 200 {object} CandidatesResponse
// @Router /api/candidates [post]
func (h *CandidatesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req CandidatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Limit <= 0 {
		req.Limit = defaultCandidateLimit
	}

	var resp CandidatesResponse

	normalized := tracklist.Normalize(req.Line)
	if normalized == "" {
		// pure layout noise; nothing to rank
		json.NewEncoder(w).Encode(resp)
		return
	}

	entry := tracklist.Parse(normalized, req.ContextArtist)
	resp.Artist = entry.Artist
	resp.Title = entry.Title
	resp.ArtistInferred = entry.ArtistInferred

	if entry.Title == "" {
		json.NewEncoder(w).Encode(resp)
		return
	}

	ranked, err := h.resolver.ResolveRanked(r.Context(), entry, req.Limit)
	if err != nil {
		if errors.Is(err, resolve.ErrBadLimit) || errors.Is(err, resolve.ErrNoQuery) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Errorw("ranked resolve failed", "line", normalized, "error", err)
		http.Error(w, "resolve error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp.Candidates = h.enricher.Enrich(r.Context(), ranked)
	json.NewEncoder(w).Encode(resp)
}
