package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/MemeBoard/board-service/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	clientIPKey  = "client-ip"
	requestIDKey = "request-id"

	requestIDHeader = "X-Request-ID"
)

func (h *Handler) requestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	c.Set(requestIDKey, requestID)
	c.Header(requestIDHeader, requestID)

	c.Next()
}

// clientIPMiddleware resolves the identity every handler compares against author_ip.
func (h *Handler) clientIPMiddleware(c *gin.Context) {
	c.Set(clientIPKey, utils.ClientIP(c.GetHeader("X-Forwarded-For"), c.Request.RemoteAddr))

	c.Next()
}

func (h *Handler) getClientIP(c *gin.Context) string {
	return c.GetString(clientIPKey)
}

func (h *Handler) loggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next()

	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(start)),
		zap.String("client_ip", h.getClientIP(c)),
		zap.String("request_id", c.GetString(requestIDKey)),
	}

	if c.Writer.Status() >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
		return
	}
	h.logger.Info("request", fields...)
}

func (h *Handler) timeoutMiddleware(c *gin.Context) {
	if h.config.RequestTimeout <= 0 {
		c.Next()
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

func (h *Handler) limitBodyMiddleware(c *gin.Context) {
	// Room for the non-file form fields on top of the media itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.config.MaxUploadSize+1<<20)

	c.Next()
}
