package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shahtaz/medusa/internal/models"
	"github.com/shahtaz/medusa/internal/services"
	"github.com/shahtaz/medusa/internal/utils"
)

type VisitorHandler struct {
	svc services.VisitorService
}

func NewVisitorHandler(svc services.VisitorService) *VisitorHandler {
	return &VisitorHandler{svc: svc}
}

type TrackVisitorRequest struct {
	VisitorID  string `json:"visitor_id"` // empty on first visit
	DeviceName string `json:"device_name"`
	DeviceType string `json:"device_type"`
	Country    string `json:"country"`
	City       string `json:"city"`
}

func (h *VisitorHandler) Track(c *gin.Context) {
	var req TrackVisitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "VisitorHandler.Track", "invalid request body", err))
		return
	}

	v, err := h.svc.Track(c.Request.Context(), &models.Visitor{
		VisitorID:  req.VisitorID,
		IPAddress:  c.ClientIP(),
		DeviceName: req.DeviceName,
		DeviceType: req.DeviceType,
		Country:    req.Country,
		City:       req.City,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"visitor_id":  v.VisitorID,
		"visit_count": v.VisitCount,
	})
}
