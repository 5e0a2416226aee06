package controller

import (
	"net/http"
)

// HandleHealth reports service liveness and dependency health.
func (c *Controller) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "redis": "disabled"}

	if c.App.RedisClient != nil {
		if err := c.App.RedisClient.Health(r.Context()); err != nil {
			status["redis"] = "unhealthy"
		} else {
			status["redis"] = "ok"
		}
	}

	c.respondJSON(w, http.StatusOK, status)
}
