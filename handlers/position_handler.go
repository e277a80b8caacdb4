package handlers

import (
	"net/http"

	"cityrace/services"

	"github.com/gin-gonic/gin"
)

type PositionHandler struct {
	positionService *services.PositionService
}

func NewPositionHandler(positionService *services.PositionService) *PositionHandler {
	return &PositionHandler{positionService: positionService}
}

func (h *PositionHandler) SubmitPosition(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.positionService.SubmitPosition(c.Param("id"), c.Param("memberId"), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PositionHandler) GetMemberPositions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	positions, err := h.positionService.GetMemberPositions(c.Param("id"), c.Param("memberId"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, positions)
}
