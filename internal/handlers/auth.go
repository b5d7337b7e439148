package handlers

import (
	"errors"
	"net/http"
	"strings"

	"marketing_site/internal/models"
	"marketing_site/internal/service"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"admin123"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Success bool               `json:"success" example:"true"`
	Message string             `json:"message" example:"Logged in successfully"`
	User    models.SessionUser `json:"user"`
}

// @Summary      Admin login
// @Description  Verifies credentials and stores the admin on the session cookie.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  LoginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/admin/login [post]
func (h *Handler) login(c *gin.Context) {
	limitBody(c)
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Username) == "" || req.Password == "" {
		h.log.Infow("auth_bad_request_body", "err", err, "request_id", requestIDFrom(c))
		c.JSON(http.StatusBadRequest, gin.H{"message": msgCredentialsMissing})
		return
	}

	ctx := c.Request.Context()
	user, err := h.services.Authorization.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.log.Infow("auth_login_rejected", "username", req.Username, "request_id", requestIDFrom(c))
			c.JSON(http.StatusUnauthorized, gin.H{"message": msgInvalidCredentials})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, gin.H{"message": msgInternalError}, "auth_login_failed", err, "username", req.Username)
		return
	}

	// a pre-login session never carries over: drop it so the id changes
	sess := currentSession(c)
	if !sess.IsNew() {
		if err := h.services.Sessions.DestroySession(ctx, sess); err != nil {
			h.logAndJSONError(c, http.StatusInternalServerError, gin.H{"message": msgInternalError}, "session_rotate_failed", err, "username", user.Username)
			return
		}
	}
	sess.Data.User = &user
	token, err := h.services.Sessions.SaveSession(ctx, sess)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, gin.H{"message": msgInternalError}, "session_save_failed", err, "username", user.Username)
		return
	}
	h.setSessionCookie(c, token, sess.ExpiresAt)

	h.log.Infow("auth_login_succeeded", "user_id", user.ID, "username", user.Username, "request_id", requestIDFrom(c))
	c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Message: msgLoggedIn,
		User:    user,
	})
}

// @Summary      Admin logout
// @Description  Destroys the current session. Succeeds without a session too.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/admin/logout [post]
func (h *Handler) logout(c *gin.Context) {
	sess := currentSession(c)
	if err := h.services.Sessions.DestroySession(c.Request.Context(), sess); err != nil {
		h.log.Errorw("session_destroy_failed", "err", err, "request_id", requestIDFrom(c))
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgLoggedOut,
	})
}

// @Summary      Current admin
// @Tags         admin
// @Produce      json
// @Success      200  {object}  models.SessionUser
// @Failure      401  {object}  map[string]string
// @Router       /api/admin/user [get]
func (h *Handler) currentUser(c *gin.Context) {
	c.JSON(http.StatusOK, c.MustGet(ctxUser))
}
