package http

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
)

type geofenceService interface {
	Create(ctx context.Context, gf *domain.Geofence) error
	Update(ctx context.Context, gf *domain.Geofence) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Geofence, error)
	ListForPatient(ctx context.Context, patientID string) ([]domain.Geofence, error)
}

type geofenceRequest struct {
	PatientID    string  `json:"patient_id"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
	AlertOnEnter bool    `json:"alert_on_enter"`
	AlertOnExit  bool    `json:"alert_on_exit"`
	Active       bool    `json:"active"`
}

type GeofenceHandler struct {
	svc geofenceService
}

func NewGeofenceHandler(svc geofenceService) *GeofenceHandler {
	return &GeofenceHandler{svc: svc}
}

func (h *GeofenceHandler) Register(r *gin.RouterGroup) {
	r.POST("/geofences", h.Create)
	r.GET("/geofences/:id", h.Get)
	r.PUT("/geofences/:id", h.Update)
	r.DELETE("/geofences/:id", h.Delete)
	r.GET("/patients/:patient_id/geofences", h.ListForPatient)
}

func (h *GeofenceHandler) Create(c *gin.Context) {
	var req geofenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	gf := toGeofence("", &req)
	if err := h.svc.Create(c.Request.Context(), gf); err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create geofence"})
		return
	}

	c.JSON(http.StatusCreated, gf)
}

func (h *GeofenceHandler) Get(c *gin.Context) {
	gf, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "geofence not found"})
		return
	}
	c.JSON(http.StatusOK, gf)
}

func (h *GeofenceHandler) Update(c *gin.Context) {
	var req geofenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	gf := toGeofence(c.Param("id"), &req)
	if err := h.svc.Update(c.Request.Context(), gf); err != nil {
		switch {
		case isValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, sql.ErrNoRows):
			c.JSON(http.StatusNotFound, gin.H{"error": "geofence not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update geofence"})
		}
		return
	}

	c.JSON(http.StatusOK, gf)
}

func (h *GeofenceHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "geofence not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete geofence"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GeofenceHandler) ListForPatient(c *gin.Context) {
	fences, err := h.svc.ListForPatient(c.Request.Context(), c.Param("patient_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch geofences"})
		return
	}
	c.JSON(http.StatusOK, fences)
}

func toGeofence(id string, req *geofenceRequest) *domain.Geofence {
	return &domain.Geofence{
		ID:           id,
		PatientID:    req.PatientID,
		Center:       domain.Coordinate{Lat: req.Latitude, Lon: req.Longitude},
		RadiusMeters: req.RadiusMeters,
		AlertOnEnter: req.AlertOnEnter,
		AlertOnExit:  req.AlertOnExit,
		Active:       req.Active,
	}
}

// Validate errors carry the offending field name; anything else is treated
// as a storage failure.
func isValidationError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, ": required") ||
		strings.Contains(msg, ": must be")
}
