package http

import "github.com/gin-gonic/gin"

// RegisterRoutes exposes photos publicly; uploads go through the owning entity.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/photos")
	group.GET("/:id", h.ServePhoto)
	group.GET("/:id/thumbnail", h.ServeThumbnail)
}
