package httptransport

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"blog-server-go/internal/domain/model"
	"blog-server-go/internal/domain/post"
	"blog-server-go/internal/platform/logging"
)

type PostHandler struct {
	posts    *post.Repository
	uploader *Uploader
	logger   *logging.Logger
}

func NewPostHandler(posts *post.Repository, uploader *Uploader, logger *logging.Logger) *PostHandler {
	return &PostHandler{
		posts:    posts,
		uploader: uploader,
		logger:   logger,
	}
}

func (h *PostHandler) RegisterRoutes(router *Router, requireAuth, optionalAuth gin.HandlerFunc) {
	grp := router.API.Group("/posts")
	grp.GET("", h.List)
	grp.GET("/:id", h.Get)
	grp.POST("", requireAuth, h.Create)
	grp.PUT("/:id", requireAuth, h.Update)
	grp.DELETE("/:id", requireAuth, h.Delete)
	grp.POST("/:id/like", requireAuth, h.ToggleLike)
	grp.GET("/:id/likes", optionalAuth, h.Likes)
}

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *PostHandler) Create(c *gin.Context) {
	authorID, _ := AccountID(c)

	var req postRequest
	image := ""
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		req.Title = c.PostForm("title")
		req.Content = c.PostForm("content")
		url, err := h.uploader.SaveImage(c, "image")
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		image = url
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	if req.Title == "" || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title and content are required"})
		return
	}

	p := &model.Post{
		Title:    req.Title,
		Content:  req.Content,
		Image:    image,
		AuthorID: authorID,
	}
	if err := h.posts.Create(c.Request.Context(), p); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PostHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	posts, err := h.posts.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) Get(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	p, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "post not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PostHandler) Update(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	callerID, _ := AccountID(c)

	p, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "post not found"})
		return
	}
	if p.AuthorID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"message": "cannot edit another user's post"})
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if req.Title != "" {
		p.Title = req.Title
	}
	if req.Content != "" {
		p.Content = req.Content
	}

	if err := h.posts.Update(c.Request.Context(), p); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	callerID, _ := AccountID(c)

	p, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "post not found"})
		return
	}
	if p.AuthorID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"message": "cannot delete another user's post"})
		return
	}

	if err := h.posts.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PostHandler) ToggleLike(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	callerID, _ := AccountID(c)

	p, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "post not found"})
		return
	}

	liked, err := h.posts.ToggleLike(c.Request.Context(), id, callerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

func (h *PostHandler) Likes(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	callerID, _ := AccountID(c)

	count, liked, err := h.posts.Likes(c.Request.Context(), id, callerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "liked": liked})
}
