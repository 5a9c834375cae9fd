package handler

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/summitline/summitline/internal/api/models"
	"github.com/summitline/summitline/internal/api/response"
	"github.com/summitline/summitline/internal/dataset"
	"github.com/summitline/summitline/internal/ranking"
)

// CatalogHandler serves the dataset catalog: summits, trailheads, starts.
type CatalogHandler struct {
	rankingService *ranking.Service
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(rankingService *ranking.Service) *CatalogHandler {
	return &CatalogHandler{rankingService: rankingService}
}

// snapshot loads the current snapshot, writing a 503 if none is loaded.
func (h *CatalogHandler) snapshot(w http.ResponseWriter, r *http.Request) (*dataset.Snapshot, bool) {
	snap, err := h.rankingService.Snapshot()
	if err != nil {
		response.ServiceUnavailable(w, r, "no dataset loaded")
		return nil, false
	}
	return snap, true
}

// ListSummits handles GET /v1/summits.
func (h *CatalogHandler) ListSummits(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	summits := make([]models.Summit, 0, len(snap.Summits))
	for _, s := range snap.Summits {
		summits = append(summits, models.SummitFromDataset(s))
	}
	sort.Slice(summits, func(i, j int) bool { return summits[i].ID < summits[j].ID })

	response.JSON(w, r, http.StatusOK, models.SummitList{Summits: summits})
}

// GetSummit handles GET /v1/summits/{summitId}.
func (h *CatalogHandler) GetSummit(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "summitId"), 10, 64)
	if err != nil {
		response.BadRequest(w, r, "summit id must be numeric", nil)
		return
	}

	summit, err := snap.Summit(id)
	if err != nil {
		response.NotFound(w, r, "summit not found")
		return
	}
	response.JSON(w, r, http.StatusOK, models.SummitFromDataset(summit))
}

// ListTargets handles GET /v1/targets.
func (h *CatalogHandler) ListTargets(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	targets := make([]models.Trailhead, 0, len(snap.Targets))
	for _, id := range snap.SortedTargetIDs() {
		targets = append(targets, models.TrailheadFromDataset(snap.Targets[id]))
	}
	response.JSON(w, r, http.StatusOK, models.TrailheadList{Targets: targets})
}

// GetTarget handles GET /v1/targets/{targetId}.
func (h *CatalogHandler) GetTarget(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	target, err := snap.Target(chi.URLParam(r, "targetId"))
	if err != nil {
		if errors.Is(err, dataset.ErrTargetNotFound) {
			response.NotFound(w, r, "trailhead not found")
			return
		}
		response.InternalError(w, r, "failed to load trailhead")
		return
	}
	response.JSON(w, r, http.StatusOK, models.TrailheadFromDataset(target))
}

// ListStarts handles GET /v1/starts.
func (h *CatalogHandler) ListStarts(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	starts := make([]models.Start, 0, len(snap.Starts))
	for _, id := range snap.SortedStartIDs() {
		starts = append(starts, models.StartFromDataset(snap.Starts[id]))
	}
	response.JSON(w, r, http.StatusOK, models.StartList{Starts: starts})
}
