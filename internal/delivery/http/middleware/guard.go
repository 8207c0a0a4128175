package middleware

import (
	"net/http"
	"strings"
	"time"

	"topjob-gateway/config"
	"topjob-gateway/internal/delivery/http/response"
	"topjob-gateway/internal/domain"
	"topjob-gateway/pkg/apperror"
	"topjob-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AreaGuard protects one application area. It derives the request's session
// from its credential store, resolves the routing decision and blocks the
// request before any protected handler runs. Browser clients are redirected
// to the destination path; API clients get a JSON envelope with the redirect
// target. Nothing behind the guard executes until a decision is reached.
//
// Requires SessionContext upstream; the guard fails closed without it.
func AreaGuard(area domain.Area, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions := Sessions(c)
		if sessions == nil {
			c.Error(apperror.Internal(nil))
			c.Abort()
			return
		}

		ctx := c.Request.Context()

		// Re-derive from storage on every request; Initialize recovers
		// expired or undecodable stored credentials by clearing them.
		if err := sessions.Initialize(ctx); err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		identity := sessions.Current()
		now := time.Now()
		destination := domain.ResolveDestination(identity, area, now)

		if destination == domain.DestinationLogin && identity != nil {
			// Expired between initialization and the routing check.
			// Re-initializing clears the credential while keeping the
			// last-subject slot, so a later different-account login still
			// broadcasts an invalidation.
			if err := sessions.Initialize(ctx); err != nil {
				logger.Log.Warn("Failed to clear expired session", "error", err)
			}
		}

		if destination == domain.DestinationPublicRoot && area == domain.AreaEmployer &&
			identity != nil && identity.Role == domain.RoleEmployer && !identity.Status.Known() {
			// Safe default, but an unrecognized status usually means the
			// backend grew a new value this gateway does not know about.
			logger.Log.Warn("Unrecognized employer status, routing to public root",
				"subject_id", identity.SubjectID, "status", string(identity.Status))
		}

		if destination != domain.DestinationAllow {
			deny(c, destination, cfg)
			return
		}

		c.Set(string(domain.KeyUserID), identity.SubjectID)
		c.Set(string(domain.KeyUserEmail), identity.Email)
		c.Set(string(domain.KeyUserRole), string(identity.Role))
		c.Set(string(domain.KeyArea), string(area))

		c.Next()
	}
}

// AreaGuardFromPath guards routes whose :area path parameter names the
// protected area. Unknown names are a 404, not a routing decision.
func AreaGuardFromPath(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		area, ok := domain.ParseArea(c.Param("area"))
		if !ok {
			response.Error(c, http.StatusNotFound, "Unknown area", nil)
			c.Abort()
			return
		}
		AreaGuard(area, cfg)(c)
	}
}

// DestinationPath maps a routing decision to the frontend path the
// navigation collaborator should load.
func DestinationPath(destination domain.Destination, cfg *config.Config) string {
	switch destination {
	case domain.DestinationLogin:
		return cfg.LoginPath
	case domain.DestinationCompleteProfile:
		return cfg.CompleteProfilePath
	case domain.DestinationPendingApproval:
		return cfg.PendingApprovalPath
	default:
		return cfg.PublicRootPath
	}
}

func deny(c *gin.Context, destination domain.Destination, cfg *config.Config) {
	path := DestinationPath(destination, cfg)

	if prefersHTML(c) {
		c.Redirect(http.StatusFound, path)
		c.Abort()
		return
	}

	status := http.StatusForbidden
	message := "Access denied"
	if destination == domain.DestinationLogin {
		status = http.StatusUnauthorized
		message = "Please log in again"
	}

	response.Error(c, status, message, gin.H{
		"destination": destination,
		"redirect":    path,
	})
	c.Abort()
}

func prefersHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html")
}
