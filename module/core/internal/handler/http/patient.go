package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/internal/repository/cache"
)

type locationService interface {
	GetLatest(ctx context.Context, patientID string) (*domain.PatientLocation, error)
	GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.PatientLocation, error)
	GetAllPatients(ctx context.Context) ([]domain.Patient, error)
}

type statusReader interface {
	GetStatus(ctx context.Context, patientID string) (*domain.PatientStatus, error)
}

type locationResponse struct {
	PatientID      string   `json:"patient_id"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Timestamp      int64    `json:"timestamp"`
	AccuracyMeters *float64 `json:"accuracy_meters,omitempty"`
	SpeedKmh       *float64 `json:"speed_kmh,omitempty"`
	BatteryPct     *float64 `json:"battery_pct,omitempty"`
}

type PatientHandler struct {
	locationSvc locationService
	statuses    statusReader
}

func NewPatientHandler(locationSvc locationService, statuses statusReader) *PatientHandler {
	return &PatientHandler{locationSvc: locationSvc, statuses: statuses}
}

func (h *PatientHandler) Register(r *gin.RouterGroup) {
	r.GET("/patients", h.GetAllPatients)
	r.GET("/patients/:patient_id/location", h.GetLatestLocation)
	r.GET("/patients/:patient_id/history", h.GetHistory)
	r.GET("/patients/:patient_id/status", h.GetStatus)
}

func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	patients, err := h.locationSvc.GetAllPatients(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch patients"})
		return
	}

	c.JSON(http.StatusOK, patients)
}

func (h *PatientHandler) GetLatestLocation(c *gin.Context) {
	patientID := c.Param("patient_id")

	pl, err := h.locationSvc.GetLatest(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "patient not found"})
		return
	}

	c.JSON(http.StatusOK, toLocationResponse(pl))
}

func (h *PatientHandler) GetHistory(c *gin.Context) {
	patientID := c.Param("patient_id")

	start, err := strconv.ParseInt(c.Query("start"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start parameter"})
		return
	}

	end, err := strconv.ParseInt(c.Query("end"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end parameter"})
		return
	}

	query := &domain.HistoryQuery{
		PatientID: patientID,
		Start:     time.Unix(start, 0),
		End:       time.Unix(end, 0),
	}

	locations, err := h.locationSvc.GetHistory(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	results := make([]locationResponse, len(locations))
	for i, pl := range locations {
		results[i] = toLocationResponse(&pl)
	}
	c.JSON(http.StatusOK, results)
}

func (h *PatientHandler) GetStatus(c *gin.Context) {
	patientID := c.Param("patient_id")

	st, err := h.statuses.GetStatus(c.Request.Context(), patientID)
	if errors.Is(err, cache.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no status for patient"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch status"})
		return
	}

	c.JSON(http.StatusOK, st)
}

func toLocationResponse(pl *domain.PatientLocation) locationResponse {
	return locationResponse{
		PatientID:      pl.PatientID,
		Latitude:       pl.Location.Lat,
		Longitude:      pl.Location.Lon,
		Timestamp:      pl.Location.Timestamp.Unix(),
		AccuracyMeters: pl.Location.AccuracyMeters,
		SpeedKmh:       pl.Location.SpeedKmh,
		BatteryPct:     pl.Location.BatteryPct,
	}
}
