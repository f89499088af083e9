package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const ServiceName = "alumni-hub-backend"

type response struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
	Service   string    `json:"service"`
}

// Handler reports liveness and seconds since started.
func Handler(started time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, response{
			Status:    "ok",
			Timestamp: time.Now().UTC(),
			Uptime:    time.Since(started).Seconds(),
			Service:   ServiceName,
		})
	}
}
