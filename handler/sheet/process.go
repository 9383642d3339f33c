// Package sheet exposes the resolution pipeline over HTTP: paste text in,
// structured sheet records out. Rendering and export belong to the caller.
package sheet

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mager/slipmat/resolve"
	"go.uber.org/zap"
)

// ProcessHandler resolves a whole pasted block in album or track mode.
type ProcessHandler struct {
	log      *zap.SugaredLogger
	pipeline *resolve.Pipeline
}

func (*ProcessHandler) Pattern() string {
	return "/api/process"
}

// NewProcessHandler builds a new ProcessHandler.
func NewProcessHandler(log *zap.SugaredLogger, pipeline *resolve.Pipeline) *ProcessHandler {
	return &ProcessHandler{
		log:      log,
		pipeline: pipeline,
	}
}

type ProcessRequest struct {
	// Mode is "albums" or "tracks".
	Mode string `json:"mode"`
	// Raw is the pasted block, one entry per line.
	Raw string `json:"raw"`
}

// Process a pasted track or album list
// @Summary Resolve a pasted list
// @Description Clean, parse, and resolve pasted lines against the catalog, enriched with BPM and key
// @Tags Sheet
// @Accept json
// @Produce json
// @Param request body ProcessRequest true "Process request"
// @Success 200 {object} resolve.Result
// @Router /api/process [post]
func (h *ProcessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.pipeline.Process(r.Context(), req.Mode, req.Raw)
	if err != nil {
		if errors.Is(err, resolve.ErrUnknownMode) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Errorw("process failed", "mode", req.Mode, "error", err)
		http.Error(w, "process error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(result)
}
