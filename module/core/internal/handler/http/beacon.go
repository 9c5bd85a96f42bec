package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
)

type beaconRegistry interface {
	Devices() []domain.BeaconRecord
	ClosestDevice() (domain.BeaconRecord, bool)
	DevicesWithinRange(maxDistance float64) []domain.BeaconRecord
}

type BeaconHandler struct {
	registry beaconRegistry
}

func NewBeaconHandler(registry beaconRegistry) *BeaconHandler {
	return &BeaconHandler{registry: registry}
}

func (h *BeaconHandler) Register(r *gin.RouterGroup) {
	r.GET("/beacons", h.List)
	r.GET("/beacons/closest", h.Closest)
}

func (h *BeaconHandler) List(c *gin.Context) {
	if raw := c.Query("max_distance"); raw != "" {
		maxDistance, err := strconv.ParseFloat(raw, 64)
		if err != nil || maxDistance < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_distance parameter"})
			return
		}
		c.JSON(http.StatusOK, emptyAsList(h.registry.DevicesWithinRange(maxDistance)))
		return
	}
	c.JSON(http.StatusOK, emptyAsList(h.registry.Devices()))
}

func (h *BeaconHandler) Closest(c *gin.Context) {
	rec, ok := h.registry.ClosestDevice()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no beacons in range"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func emptyAsList(records []domain.BeaconRecord) []domain.BeaconRecord {
	if records == nil {
		return []domain.BeaconRecord{}
	}
	return records
}
