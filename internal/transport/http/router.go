package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dropfour/connect4/internal/transport/http/middleware"
)

// NewRouter wires the REST routes and, when ws is not nil, the socket route.
func NewRouter(games Games, ws gin.HandlerFunc, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(middleware.LoggerMiddleware(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(allowedOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	gamesHandler := NewGamesHandler(games)
	api := router.Group("/api/games")
	{
		api.POST("", gamesHandler.CreateGame)
		api.GET("", gamesHandler.ListGames)
		api.GET("/:id", gamesHandler.GetGame)
		api.POST("/:id/moves", gamesHandler.MakeMove)
		api.DELETE("/:id", gamesHandler.DeleteGame)
	}

	if ws != nil {
		router.GET("/ws/:id", ws)
	}

	return router
}
