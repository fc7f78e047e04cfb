package health

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/labinv/pkg/middleware/redis"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func Health(g *gin.Context) {
	g.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func Live(g *gin.Context) {
	g.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready checks the lab api and, when configured, redis.
func Ready(api Pinger) gin.HandlerFunc {
	return func(g *gin.Context) {
		checks := gin.H{}
		healthy := true

		if err := api.Ping(g.Request.Context()); err != nil {
			checks["lab_api"] = "unhealthy"
			healthy = false
		} else {
			checks["lab_api"] = "ok"
		}

		if rc := redis.GetClient(); rc != nil {
			if err := rc.Ping(g.Request.Context()).Err(); err != nil {
				checks["redis"] = "unhealthy"
				healthy = false
			} else {
				checks["redis"] = "ok"
			}
		} else {
			checks["redis"] = "disabled"
		}

		status := http.StatusOK
		msg := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			msg = "not_ready"
		}

		g.JSON(status, gin.H{
			"status": msg,
			"checks": checks,
		})
	}
}
