// Package handler provides HTTP handlers for the Summitline API.
package handler

import (
	"net/http"
	"time"

	"github.com/summitline/summitline/internal/api/models"
	"github.com/summitline/summitline/internal/api/response"
	"github.com/summitline/summitline/internal/ranking"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version        string
	buildTime      string
	rankingService *ranking.Service
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, rankingService *ranking.Service) *OpsHandler {
	return &OpsHandler{
		version:        version,
		buildTime:      buildTime,
		rankingService: rankingService,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. The service
// is ready once a dataset snapshot is loaded; before that, ranking and
// catalog requests cannot be served.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if _, err := h.rankingService.Snapshot(); err != nil {
		health := models.Health{
			Status: models.HealthStatusFail,
			Time:   models.Timestamp(time.Now()),
			Details: map[string]interface{}{
				"reason": "no dataset snapshot loaded",
			},
		}
		response.JSON(w, r, http.StatusServiceUnavailable, health)
		return
	}

	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - subsystem and dataset status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())
	stats := h.rankingService.Stats()

	datasetStatus := models.HealthStatusOK
	var detail *string
	if stats.SnapshotVersion == "" {
		datasetStatus = models.HealthStatusFail
		d := "no dataset snapshot loaded"
		detail = &d
	}

	status := models.SystemStatus{
		Status: datasetStatus,
		Time:   now,
		Subsystems: []models.SubsystemStatus{
			{Name: "dataset-snapshot", Status: datasetStatus, Detail: detail},
		},
	}
	if stats.SnapshotVersion != "" {
		loadedAt := models.Timestamp(stats.SnapshotLoaded)
		status.Dataset = &models.DatasetStatus{
			Version:      stats.SnapshotVersion,
			LoadedAt:     &loadedAt,
			CachedPasses: stats.CachedPasses,
		}
	}
	response.JSON(w, r, http.StatusOK, status)
}
