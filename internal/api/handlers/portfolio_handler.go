package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shahtaz/medusa/internal/services"
	"github.com/shahtaz/medusa/internal/utils"
)

type PortfolioHandler struct {
	svc services.PortfolioService
}

func NewPortfolioHandler(svc services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{svc: svc}
}

func (h *PortfolioHandler) CreateSkill(c *gin.Context) {
	var in services.SkillInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PortfolioHandler.CreateSkill", "invalid request body", err))
		return
	}
	skill, err := h.svc.CreateSkill(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, skill)
}

func (h *PortfolioHandler) UpdateSkill(c *gin.Context) {
	var in services.SkillInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PortfolioHandler.UpdateSkill", "invalid request body", err))
		return
	}
	skill, err := h.svc.UpdateSkill(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, skill)
}

func (h *PortfolioHandler) DeleteSkill(c *gin.Context) {
	if err := h.svc.DeleteSkill(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PortfolioHandler) CreateService(c *gin.Context) {
	var in services.ServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PortfolioHandler.CreateService", "invalid request body", err))
		return
	}
	svc, err := h.svc.CreateService(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *PortfolioHandler) UpdateService(c *gin.Context) {
	var in services.ServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PortfolioHandler.UpdateService", "invalid request body", err))
		return
	}
	svc, err := h.svc.UpdateService(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *PortfolioHandler) DeleteService(c *gin.Context) {
	if err := h.svc.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PortfolioHandler) CreateProject(c *gin.Context) {
	var in services.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PortfolioHandler.CreateProject", "invalid request body", err))
		return
	}
	project, err := h.svc.CreateProject(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *PortfolioHandler) UpdateProject(c *gin.Context) {
	var in services.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PortfolioHandler.UpdateProject", "invalid request body", err))
		return
	}
	project, err := h.svc.UpdateProject(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *PortfolioHandler) DeleteProject(c *gin.Context) {
	if err := h.svc.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Resync rebuilds the vector index from the source tables; the manual
// corrective for content/vector drift.
func (h *PortfolioHandler) Resync(c *gin.Context) {
	indexed, err := h.svc.Resync(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"indexed": indexed})
}
