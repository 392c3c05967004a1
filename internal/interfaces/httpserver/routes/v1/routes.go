package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/auth"
	"github.com/Plaqueminier/m3u8-viewer/internal/interfaces/httpserver/handlers"
)

// Routes wires the API surface onto a router group.
type Routes struct {
	handlers      *handlers.Provider
	authenticator *auth.Authenticator
}

func NewRoutes(provider *handlers.Provider, authenticator *auth.Authenticator) *Routes {
	return &Routes{
		handlers:      provider,
		authenticator: authenticator,
	}
}

// Register mounts the /api routes. Everything except the password gate itself
// sits behind the auth cookie middleware.
func (r *Routes) Register(root *gin.RouterGroup) {
	api := root.Group("/api")

	api.POST("/auth", r.handlers.Auth.Login)
	api.GET("/check-auth", r.handlers.Auth.Check)

	protected := api.Group("")
	protected.Use(r.authenticator.Middleware())
	{
		protected.GET("/models", r.handlers.Video.Models)
		protected.GET("/videos", r.handlers.Video.List)
		protected.GET("/video", r.handlers.Video.Get)
		protected.GET("/previews", r.handlers.Video.Previews)
		protected.POST("/setFavorite", r.handlers.Video.ToggleFavorite)
		protected.POST("/video/seen", r.handlers.Video.MarkSeen)
		protected.POST("/video/delete", r.handlers.Video.Delete)
	}
}
