package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Kamar-Folarin/game-updater/internal/errors"
	"github.com/Kamar-Folarin/game-updater/internal/models"
)

// TokenHeader carries the shared secret when API_TOKEN is configured.
const TokenHeader = "X-Launcher-Token"

// RouterConfig holds router options
type RouterConfig struct {
	// APIToken, when set, is required on every /api/v1 request.
	APIToken     string
	AllowOrigins []string
}

// SetupRouter configures the API routes
func SetupRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", TokenHeader)
	r.Use(cors.New(corsConfig))

	r.GET("/health", h.Health)

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.Use(requireToken(cfg.APIToken))
	{
		game := v1.Group("/game")
		{
			game.POST("/check", h.CheckVersion)
			game.POST("/clone", h.CloneGame)
			game.POST("/update", h.UpdateGame)
			game.POST("/launch", h.LaunchGame)
			game.GET("/progress", h.GetProgress)
			game.PUT("/path", h.SetGamePath)
		}

		sync := v1.Group("/sync")
		{
			sync.GET("/history", h.GetSyncHistory)
		}
	}

	return r
}

func requireToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if subtle.ConstantTimeCompare([]byte(c.GetHeader(TokenHeader)), []byte(token)) != 1 {
			err := errors.NewUnauthorizedError("missing or invalid "+TokenHeader+" header", nil)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Status: models.StatusError,
				Error:  err.Message,
				Type:   string(err.Type),
			})
			return
		}
		c.Next()
	}
}
