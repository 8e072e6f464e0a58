package httptransport

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blog-server-go/internal/domain/auth"
	"blog-server-go/internal/platform/config"
	"blog-server-go/internal/platform/logging"
)

// AuthHandler exposes the authentication flows over HTTP and owns the
// refresh-cookie lifecycle.
type AuthHandler struct {
	service  *auth.Service
	uploader *Uploader
	cfg      config.AuthConfig
	logger   *logging.Logger
}

func NewAuthHandler(
	service *auth.Service,
	uploader *Uploader,
	cfg config.AuthConfig,
	logger *logging.Logger,
) *AuthHandler {
	return &AuthHandler{
		service:  service,
		uploader: uploader,
		cfg:      cfg,
		logger:   logger,
	}
}

// RegisterRoutes attaches the auth endpoints, optionally behind a stricter
// rate limiter than the rest of the API.
func (h *AuthHandler) RegisterRoutes(router *Router, limit gin.HandlerFunc) {
	grp := router.API.Group("/auth")
	if limit != nil {
		grp.Use(limit)
	}
	grp.POST("/register", h.Register)
	grp.POST("/login", h.Login)
	grp.POST("/google-login", h.GoogleLogin)
	grp.POST("/refresh-token", h.Refresh)
	grp.GET("/logout", h.Logout)
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	avatar := ""

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		req.Username = c.PostForm("username")
		req.Password = c.PostForm("password")
		req.FullName = c.PostForm("fullName")
		url, err := h.uploader.SaveImage(c, "avatar")
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		avatar = url
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	account, pair, err := h.service.Register(c.Request.Context(), auth.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Avatar:   avatar,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusCreated, gin.H{
		"user":        account,
		"accessToken": pair.AccessToken,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	account, pair, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"user":        account,
		"accessToken": pair.AccessToken,
	})
}

type googleLoginRequest struct {
	Credential string `json:"credential"`
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	account, pair, err := h.service.GoogleLogin(c.Request.Context(), req.Credential)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"user":        account,
		"accessToken": pair.AccessToken,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(h.cfg.CookieName)
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "no refresh token provided"})
		return
	}

	account, pair, err := h.service.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"accessToken": pair.AccessToken,
		"user":        account,
	})
}

// Logout clears the refresh cookie. With no cookie present it still
// succeeds: logging out twice is not an error.
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, err := c.Cookie(h.cfg.CookieName); err != nil {
		c.Status(http.StatusNoContent)
		return
	}
	h.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(
		h.cfg.CookieName,
		token,
		int(h.cfg.RefreshTTL.Seconds()),
		"/",
		h.cfg.CookieDomain,
		h.cfg.CookieSecure,
		true,
	)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(h.cfg.CookieName, "", -1, "/", h.cfg.CookieDomain, h.cfg.CookieSecure, true)
}
