package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetHealth pings the storage backend when it has something to ping.
func GetHealth(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := map[string]string{"storage": "ok"}
		if p := app.Pinger(); p != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				checks["storage"] = "down: " + err.Error()
				app.Logger().Warnf("health check failed: %v", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "checks": checks})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
	}
}
