package httptransport

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"blog-server-go/internal/domain/user"
	"blog-server-go/internal/platform/logging"
)

type UserHandler struct {
	accounts *user.Repository
	uploader *Uploader
	logger   *logging.Logger
}

func NewUserHandler(accounts *user.Repository, uploader *Uploader, logger *logging.Logger) *UserHandler {
	return &UserHandler{
		accounts: accounts,
		uploader: uploader,
		logger:   logger,
	}
}

func (h *UserHandler) RegisterRoutes(router *Router, requireAuth gin.HandlerFunc) {
	grp := router.API.Group("/users")
	grp.GET("/:id", h.Get)
	grp.PUT("/:id", requireAuth, h.Update)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	account, err := h.accounts.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if account == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": account})
}

type updateProfileRequest struct {
	FullName string `json:"fullName"`
	Bio      string `json:"bio"`
}

// Update edits the caller's own profile; editing someone else's is 403.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	callerID, _ := AccountID(c)
	if callerID != id {
		c.JSON(http.StatusForbidden, gin.H{"message": "cannot edit another user's profile"})
		return
	}

	account, err := h.accounts.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if account == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}

	var req updateProfileRequest
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		req.FullName = c.PostForm("fullName")
		req.Bio = c.PostForm("bio")
		url, err := h.uploader.SaveImage(c, "avatar")
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		if url != "" {
			account.Avatar = url
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	if req.FullName != "" {
		account.FullName = req.FullName
	}
	if req.Bio != "" {
		account.Bio = req.Bio
	}

	if err := h.accounts.Update(c.Request.Context(), account); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": account})
}

// paramUint parses a numeric path parameter, responding 400 itself when
// the value is malformed.
func paramUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid " + name})
		return 0, false
	}
	return uint(v), true
}
