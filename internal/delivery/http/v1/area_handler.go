package v1

import (
	"net/http"

	"topjob-gateway/config"
	"topjob-gateway/internal/delivery/http/middleware"
	"topjob-gateway/internal/delivery/http/response"
	"topjob-gateway/internal/domain"

	"github.com/gin-gonic/gin"
)

// AreaHandler exposes one probe route per protected area. Each route sits
// behind its area guard, so reaching the handler at all means the routing
// decision was Allow; the frontend uses these probes at mount time to
// decide whether it may render the area.
type AreaHandler struct {
	config *config.Config
}

func NewAreaHandler(rg *gin.RouterGroup, cfg *config.Config) {
	handler := &AreaHandler{config: cfg}

	// The guard resolves the area from the path, 404ing unknown names.
	rg.GET("/areas/:area", middleware.AreaGuardFromPath(cfg), handler.Enter)
}

func (h *AreaHandler) Enter(c *gin.Context) {
	area, _ := c.Get(string(domain.KeyArea))
	userID, _ := c.Get(string(domain.KeyUserID))
	email, _ := c.Get(string(domain.KeyUserEmail))
	role, _ := c.Get(string(domain.KeyUserRole))

	response.Success(c, http.StatusOK, "Access granted", gin.H{
		"area":       area,
		"subject_id": userID,
		"email":      email,
		"role":       role,
	})
}
