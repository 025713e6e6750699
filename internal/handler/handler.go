package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MemeBoard/board-service/internal/dto"
	"github.com/MemeBoard/board-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Config struct {
	AllowOrigins   []string
	MediaDir       string
	MediaURLPrefix string
	MaxUploadSize  int64
	RequestTimeout time.Duration
}

type Handler struct {
	services  *service.Service
	logger    *zap.Logger
	config    Config
	startedAt time.Time
}

func New(services *service.Service, logger *zap.Logger, cfg Config) *Handler {
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = service.DEFAULT_MAX_MEDIA_SIZE
	}

	return &Handler{
		services:  services,
		logger:    logger,
		config:    cfg,
		startedAt: time.Now(),
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), h.requestIDMiddleware, h.loggerMiddleware, h.clientIPMiddleware)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"POST", "GET", "PUT", "DELETE"}
	if len(h.config.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = h.config.AllowOrigins
	}
	r.Use(cors.New(corsConfig))

	r.GET("/health", h.health)

	if h.config.MediaDir != "" {
		r.Static(h.config.MediaURLPrefix, h.config.MediaDir)
	}

	api := r.Group("", h.timeoutMiddleware)
	{
		posts := api.Group("/posts")
		{
			posts.POST("", h.limitBodyMiddleware, h.postsCreate)
			posts.GET("", h.postsGetAll)
			posts.GET("/trending", h.postsTrending)

			post := posts.Group("/:postID")
			{
				post.GET("", h.postsGetByID)
				post.PUT("", h.limitBodyMiddleware, h.postsEdit)
				post.DELETE("", h.postsDelete)
				post.POST("/like", h.postsToggleLike)
				post.GET("/isLiked", h.postsIsLiked)
				post.GET("/comments", h.commentsGet)
				post.POST("/comments", h.commentsCreate)
			}
		}

		comments := api.Group("/comments/:commentID")
		{
			comments.PUT("", h.commentsEdit)
			comments.DELETE("", h.commentsDelete)
		}
	}

	return r
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status: "ok",
		Uptime: time.Since(h.startedAt).Truncate(time.Second).String(),
		Time:   time.Now(),
	})
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(param)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
