package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"technews/app/database"
)

// NewServer creates the HTTP engine with all routes configured.
func NewServer(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware; the frontend is served from a different origin.
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-User-Id")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/", handler.GetRoot)
	r.GET("/health", handler.GetHealth)

	api := r.Group("/api")
	{
		api.GET("/news", handler.GetNews)
		api.GET("/trending", handler.GetTrending)
		api.GET("/recommendations/:id", handler.GetRecommendations)
		api.POST("/chat/:id", handler.PostChat)

		api.POST("/signup", handler.PostSignup)
		api.POST("/login", handler.PostLogin)

		bookmarks := api.Group("/bookmarks")
		bookmarks.Use(authMiddleware(handler.users))
		{
			bookmarks.POST("", handler.PostBookmark)
			bookmarks.GET("", handler.GetBookmarks)
		}
	}

	return r
}

// authMiddleware resolves the X-User-Id header to a known user and aborts
// with 401 otherwise.
func authMiddleware(users database.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-Id")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
			return
		}

		c.Set("user", user)
		c.Next()
	}
}
