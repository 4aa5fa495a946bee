package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/allisson/credstore/internal/config"
)

// newCORSMiddleware reports false when CORS is disabled or no origin survives parsing.
func newCORSMiddleware(cfg *config.Config, logger *slog.Logger) (gin.HandlerFunc, bool) {
	if !cfg.CORSEnabled {
		return nil, false
	}

	origins := splitOrigins(cfg.CORSAllowOrigins)
	if len(origins) == 0 {
		logger.Warn("cors enabled without allowed origins, skipping")
		return nil, false
	}
	logger.Info("cors enabled", slog.Any("origins", origins))

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}), true
}

func splitOrigins(raw string) []string {
	var origins []string
	for origin := range strings.SplitSeq(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
