package handlers

import (
	"net/http"

	"cityrace/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameService *services.GameService
}

func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.gameService.CreateGame(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) GetGame(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	game, err := h.gameService.GetGame(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) GetGameByShortcode(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	game, err := h.gameService.GetGameByShortcode(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) StartGame(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	origin, err := coordinateFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	game, err := h.gameService.StartGame(c.Param("id"), userID, origin)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) DeleteGame(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.gameService.DeleteGame(c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (h *GameHandler) JoinGame(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	member, err := h.gameService.JoinGame(c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

func (h *GameHandler) SetMemberReady(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	err := h.gameService.SetMemberReady(c.Param("id"), c.Param("memberId"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (h *GameHandler) LeaveGame(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	err := h.gameService.LeaveGame(c.Param("id"), c.Param("memberId"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
