package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/summitline/summitline/internal/api/models"
	"github.com/summitline/summitline/internal/api/response"
	"github.com/summitline/summitline/internal/dataset"
	"github.com/summitline/summitline/internal/prefs"
	"github.com/summitline/summitline/internal/ranking"
)

// RankingsHandler handles the compute endpoints.
type RankingsHandler struct {
	rankingService *ranking.Service
	prefsService   *prefs.Service
}

// NewRankingsHandler creates a new RankingsHandler.
func NewRankingsHandler(rankingService *ranking.Service, prefsService *prefs.Service) *RankingsHandler {
	return &RankingsHandler{
		rankingService: rankingService,
		prefsService:   prefsService,
	}
}

// requestPreferences resolves the preferences for a compute request: a
// non-empty body is parsed strictly and rejected whole on any violation;
// an empty body falls back to the authenticated user's saved preferences,
// or to defaults. Returns false when a response has already been written.
func (h *RankingsHandler) requestPreferences(w http.ResponseWriter, r *http.Request) (prefs.UserPreferences, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		response.BadRequest(w, r, "failed to read request body", nil)
		return prefs.UserPreferences{}, false
	}

	if len(body) == 0 {
		if userID := GetUserID(r.Context()); userID != "" {
			return h.prefsService.Load(r.Context(), userID), true
		}
		return prefs.Defaults(), true
	}

	p, err := prefs.Parse(body)
	if err != nil {
		var verr *prefs.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(w, r, "invalid preferences", fieldErrors(verr))
			return prefs.UserPreferences{}, false
		}
		response.BadRequest(w, r, "malformed preferences", nil)
		return prefs.UserPreferences{}, false
	}
	return p, true
}

// ComputeTarget handles POST /v1/rankings/targets/{targetId}:compute.
func (h *RankingsHandler) ComputeTarget(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requestPreferences(w, r)
	if !ok {
		return
	}

	targetID := chi.URLParam(r, "targetId")
	options, err := h.rankingService.RankTarget(targetID, p)
	if err != nil {
		switch {
		case errors.Is(err, dataset.ErrNoSnapshot):
			response.ServiceUnavailable(w, r, "no dataset loaded")
		case errors.Is(err, dataset.ErrTargetNotFound):
			response.NotFound(w, r, "trailhead not found")
		default:
			response.InternalError(w, r, "ranking computation failed")
		}
		return
	}

	snap, _ := h.rankingService.Snapshot()
	response.JSON(w, r, http.StatusOK, models.TargetRankings{
		TargetID:       targetID,
		DatasetVersion: snap.Version,
		Options:        models.RankedOptionsFromRanking(options, p.UI.ShowLabels),
	})
}

// ComputeStart handles POST /v1/rankings/starts/{startId}:compute.
// The limit query parameter bounds the merged list; omitted or 0 means
// unbounded.
func (h *RankingsHandler) ComputeStart(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requestPreferences(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.BadRequest(w, r, "limit must be a non-negative integer", nil)
			return
		}
		limit = parsed
	}

	startID := chi.URLParam(r, "startId")
	options, err := h.rankingService.TopForStart(startID, p, limit)
	if err != nil {
		switch {
		case errors.Is(err, dataset.ErrNoSnapshot):
			response.ServiceUnavailable(w, r, "no dataset loaded")
		case errors.Is(err, dataset.ErrStartNotFound):
			response.NotFound(w, r, "start not found")
		default:
			response.InternalError(w, r, "ranking computation failed")
		}
		return
	}

	snap, _ := h.rankingService.Snapshot()
	response.JSON(w, r, http.StatusOK, models.StartRankings{
		StartID:        startID,
		DatasetVersion: snap.Version,
		Limit:          limit,
		Options:        models.RankedOptionsFromRanking(options, p.UI.ShowLabels),
	})
}

// fieldErrors converts preference validation errors to API field errors.
func fieldErrors(verr *prefs.ValidationError) []models.FieldError {
	out := make([]models.FieldError, len(verr.Errors))
	for i, fe := range verr.Errors {
		out[i] = models.FieldError{Field: fe.Field, Message: fe.Message}
	}
	return out
}
