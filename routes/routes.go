package routes

import (
	"log"
	"net/http"

	"cityrace/handlers"
	"cityrace/middleware"
	"cityrace/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	gameHandler *handlers.GameHandler,
	questionHandler *handlers.QuestionHandler,
	positionHandler *handlers.PositionHandler,
	healthHandler *handlers.HealthHandler,
	hub *services.Hub,
	jwtSecret string,
) {
	v1 := router.Group("/v1")
	v1.Use(middleware.Auth(jwtSecret))
	{
		games := v1.Group("/games")
		{
			games.POST("", gameHandler.CreateGame)
			games.GET("/shortcode/:code", gameHandler.GetGameByShortcode)
			games.GET("/:id", gameHandler.GetGame)
			games.PUT("/:id/start", gameHandler.StartGame)
			games.DELETE("/:id", gameHandler.DeleteGame)

			games.POST("/:id/members", gameHandler.JoinGame)
			games.PUT("/:id/members/:memberId/ready", gameHandler.SetMemberReady)
			games.DELETE("/:id/members/:memberId", gameHandler.LeaveGame)

			games.GET("/:id/members/:memberId/questions/next", questionHandler.NextQuestion)
			games.POST("/:id/members/:memberId/positions", positionHandler.SubmitPosition)
			games.GET("/:id/members/:memberId/positions", positionHandler.GetMemberPositions)
		}

		questions := v1.Group("/questions")
		{
			questions.POST("", middleware.RequireRole(services.RoleAdmin), questionHandler.AddQuestion)
			questions.GET("/:id", questionHandler.GetQuestion)
		}
	}

	// WebSocket endpoint for the per-game event stream.
	router.GET("/ws/:gameId/:memberId", func(c *gin.Context) {
		gameID := c.Param("gameId")
		memberID := c.Param("memberId")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for game %s, member %s: %v", gameID, memberID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
			return
		}

		hub.RegisterClient(conn, gameID, memberID)
	})

	router.GET("/health", healthHandler.Check)
}
