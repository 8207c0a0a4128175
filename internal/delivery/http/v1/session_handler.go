package v1

import (
	"errors"
	"net/http"

	"topjob-gateway/config"
	"topjob-gateway/internal/delivery/http/middleware"
	"topjob-gateway/internal/delivery/http/response"
	"topjob-gateway/internal/domain"
	"topjob-gateway/internal/usecase"
	"topjob-gateway/pkg/apperror"
	"topjob-gateway/pkg/auth"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	avatars *usecase.AvatarCache
	audit   domain.SessionEventRepository
	config  *config.Config
}

func NewSessionHandler(rg *gin.RouterGroup, avatars *usecase.AvatarCache, audit domain.SessionEventRepository, cfg *config.Config, loginLimiter gin.HandlerFunc) {
	handler := &SessionHandler{
		avatars: avatars,
		audit:   audit,
		config:  cfg,
	}

	session := rg.Group("/session")
	{
		session.POST("/login", loginLimiter, handler.Login)
		session.POST("/logout", handler.Logout)
		session.GET("/me", handler.Me)
		session.GET("/avatar", handler.Avatar)
		session.GET("/events", handler.Events)
	}
}

// LoginRequest accepts the token under any of the field names the external
// backend has been observed to produce.
type LoginRequest struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
	Credential  string `json:"credential"`
}

func (r *LoginRequest) credential() string {
	switch {
	case r.Token != "":
		return r.Token
	case r.AccessToken != "":
		return r.AccessToken
	default:
		return r.Credential
	}
}

func (h *SessionHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	credential := req.credential()
	if credential == "" {
		c.Error(apperror.BadRequest("A credential is required (token, access_token or credential)"))
		return
	}

	identity, err := middleware.Sessions(c).Login(c.Request.Context(), credential)
	if err != nil {
		// A decode failure on explicit login is a backend contract
		// violation worth surfacing, unlike the silent recovery on
		// initialization.
		var decodeErr *auth.DecodeError
		if errors.As(err, &decodeErr) || errors.Is(err, domain.ErrExpiredCredential) {
			c.Error(apperror.Unauthorized("Invalid credentials"))
			return
		}
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Logged in", identity)
}

func (h *SessionHandler) Logout(c *gin.Context) {
	if err := middleware.Sessions(c).Logout(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}

	// The navigation collaborator takes the user back to the public root.
	response.Success(c, http.StatusOK, "Logged out", gin.H{
		"redirect": h.config.PublicRootPath,
	})
}

func (h *SessionHandler) Me(c *gin.Context) {
	identity, ok := h.currentIdentity(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, "Current session", identity)
}

func (h *SessionHandler) Avatar(c *gin.Context) {
	identity, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	thumb, err := h.avatars.Thumbnail(c.Request.Context(), identity.SubjectID)
	if err != nil {
		c.Error(apperror.New(http.StatusBadGateway, "Avatar unavailable", err))
		return
	}

	c.Data(http.StatusOK, "image/jpeg", thumb)
}

func (h *SessionHandler) Events(c *gin.Context) {
	identity, ok := h.currentIdentity(c)
	if !ok {
		return
	}
	if h.audit == nil {
		c.Error(apperror.NotFound("Session audit log is not enabled"))
		return
	}

	events, err := h.audit.ListBySubject(c.Request.Context(), identity.SubjectID, 50)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Session events", events)
}

func (h *SessionHandler) currentIdentity(c *gin.Context) (*domain.Identity, bool) {
	sessions := middleware.Sessions(c)
	if err := sessions.Initialize(c.Request.Context()); err != nil {
		c.Error(err)
		return nil, false
	}

	identity := sessions.Current()
	if identity == nil {
		response.Error(c, http.StatusUnauthorized, "Please log in again", gin.H{
			"redirect": h.config.LoginPath,
		})
		c.Abort()
		return nil, false
	}
	return identity, true
}
