package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/shahtaz/medusa/internal/api/handlers"
	"github.com/shahtaz/medusa/internal/api/middleware"
)

type Deps struct {
	Chat      *handlers.ChatHandler
	Portfolio *handlers.PortfolioHandler
	Visitor   *handlers.VisitorHandler
	WS        *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Public visitor surface
	r.POST("/visitor/track", d.Visitor.Track)
	r.POST("/chat/message", d.Chat.SendMessage)
	r.GET("/chat/conversation/:conversation_id", d.Chat.History)
	r.GET("/chat/ws", d.WS.ChatWS)

	// Admin surface (JWT)
	admin := r.Group("/")
	admin.Use(middleware.AdminAuth())

	admin.GET("/chat/conversations", d.Chat.ListConversations)
	admin.DELETE("/chat/conversation/:conversation_id", d.Chat.DeleteConversation)

	admin.POST("/portfolio/skills", d.Portfolio.CreateSkill)
	admin.PUT("/portfolio/skills/:id", d.Portfolio.UpdateSkill)
	admin.DELETE("/portfolio/skills/:id", d.Portfolio.DeleteSkill)

	admin.POST("/portfolio/services", d.Portfolio.CreateService)
	admin.PUT("/portfolio/services/:id", d.Portfolio.UpdateService)
	admin.DELETE("/portfolio/services/:id", d.Portfolio.DeleteService)

	admin.POST("/portfolio/projects", d.Portfolio.CreateProject)
	admin.PUT("/portfolio/projects/:id", d.Portfolio.UpdateProject)
	admin.DELETE("/portfolio/projects/:id", d.Portfolio.DeleteProject)

	admin.POST("/portfolio/resync", d.Portfolio.Resync)
}
