package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/summitline/summitline/internal/api/response"
	"github.com/summitline/summitline/internal/prefs"
)

// PreferencesHandler handles the authenticated preferences endpoints.
type PreferencesHandler struct {
	prefsService *prefs.Service
}

// NewPreferencesHandler creates a new PreferencesHandler.
func NewPreferencesHandler(prefsService *prefs.Service) *PreferencesHandler {
	return &PreferencesHandler{prefsService: prefsService}
}

// GetPreferences handles GET /v1/me/preferences. A user with nothing saved
// receives the defaults, never a 404.
func (h *PreferencesHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	p := h.prefsService.Load(r.Context(), userID)
	response.JSON(w, r, http.StatusOK, p)
}

// PutPreferences handles PUT /v1/me/preferences. The document is parsed
// strictly: unknown fields, wrong types, or out-of-range values reject the
// whole object with field errors.
func (h *PreferencesHandler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		response.BadRequest(w, r, "failed to read request body", nil)
		return
	}

	p, err := prefs.Parse(body)
	if err != nil {
		var verr *prefs.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(w, r, "invalid preferences", fieldErrors(verr))
			return
		}
		response.BadRequest(w, r, "malformed preferences", nil)
		return
	}

	userID := GetUserID(r.Context())
	if err := h.prefsService.Save(r.Context(), userID, p); err != nil {
		var verr *prefs.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(w, r, "invalid preferences", fieldErrors(verr))
			return
		}
		response.InternalError(w, r, "failed to save preferences")
		return
	}

	response.JSON(w, r, http.StatusOK, p)
}

// DeletePreferences handles DELETE /v1/me/preferences, reverting the user
// to defaults.
func (h *PreferencesHandler) DeletePreferences(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if err := h.prefsService.Clear(r.Context(), userID); err != nil {
		response.InternalError(w, r, "failed to clear preferences")
		return
	}
	response.NoContent(w, r)
}
